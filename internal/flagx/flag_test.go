package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-d", "journal.db", "-x", "other"},
			allowed: []string{"-d"},
			want:    []string{"-d", "journal.db"},
		},
		{
			name:    "equals form",
			args:    []string{"--db=journal.db", "--other=1"},
			allowed: []string{"--db"},
			want:    []string{"--db=journal.db"},
		},
		{
			name:    "flag without value followed by another flag",
			args:    []string{"-v", "-d", "journal.db"},
			allowed: []string{"-v"},
			want:    []string{"-v"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "b"},
			allowed: []string{"-z"},
			want:    []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FilterArgs(tc.args, tc.allowed))
		})
	}
}
