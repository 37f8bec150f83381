package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSettings(t *testing.T) {
	cases := []struct {
		name     string
		tname    string
		maxTeams int
		bestOf   int
		teamSize int
		wantErr  bool
	}{
		{"ok minimos", "Copa", 2, 1, 1, false},
		{"ok tipicos", "Copa del Server", 8, 3, 2, false},
		{"ok maximos", "Copa", 64, 5, 6, false},
		{"nombre vacio", "   ", 8, 3, 2, true},
		{"cero equipos", "Copa", 0, 3, 2, true},
		{"best of par", "Copa", 8, 2, 2, true},
		{"best of siete", "Copa", 8, 7, 2, true},
		{"equipo de cero", "Copa", 8, 3, 0, true},
		{"equipo gigante", "Copa", 8, 3, 7, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := validateSettings(c.tname, c.maxTeams, c.bestOf, c.teamSize)
			if c.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
