package storage

import "time"

// Una fila por guild (PK guild_id). Los IDs de Discord van como TEXT
// porque discordgo expone los snowflakes como string; '' = aun no creado.
type Tournament struct {
	GuildID         string
	Name            string
	MaxTeams        int
	TeamSize        int
	BestOf          int
	BracketType     string // Single Elim | Double Elim
	CaptainScoring  bool
	ScreenshotProof bool
	QueueStatus     string // OPEN | CLOSED
	Status          string // WAITING | RUNNING | FINISHED

	CategoryID        string
	TeamsCategoryID   string
	MatchesCategoryID string

	PanelChannelID     string
	PanelMessageID     string
	JoinPanelChannelID string
	JoinPanelMessageID string
	JoinInviteCode     string

	CreateTeamChannelID string
	TeamsChannelID      string
	ChatChannelID       string
	BracketChannelID    string
	BracketMessageID    string
	ResultsChannelID    string
	RulesChannelID      string
	AnnounceChannelID   string

	PlayerRoleID    string
	SpectatorRoleID string

	TeamsJoined      int
	PlayersJoined    int
	SpectatorsJoined int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Para updates parciales (/t_edit_settings, toggles, punteros de paneles)
type TournamentPatch struct {
	Name            *string
	MaxTeams        *int
	TeamSize        *int
	BestOf          *int
	BracketType     *string
	CaptainScoring  *bool
	ScreenshotProof *bool
	QueueStatus     *string
	Status          *string

	TeamsCategoryID    *string
	MatchesCategoryID  *string
	JoinPanelChannelID *string
	JoinPanelMessageID *string
	JoinInviteCode     *string
	BracketMessageID   *string
}

type Team struct {
	TeamID    int64
	GuildID   string
	Name      string
	RoleID    string
	CaptainID string
	ChannelID string
	IsReady   bool
	IsBot     bool
	CreatedAt time.Time
}

type BracketMatch struct {
	GuildID   string
	MatchID   int
	Round     int
	TeamA     string
	TeamB     *string // NULL = pase directo
	Winner    *string
	ScoreA    *int
	ScoreB    *int
	Status    string // PENDING | COMPLETED
	ChannelID string
}

type BotPlayer struct {
	ID      int64
	GuildID string
	Label   string
}
