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
			name:    "short flag with separate value",
			args:    []string{"-c", "conf.json", "-a", "localhost"},
			allowed: []string{"-c", "--config"},
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "long flag with equals",
			args:    []string{"--config=alt.json", "-a", "localhost"},
			allowed: []string{"-c", "--config"},
			want:    []string{"--config=alt.json"},
		},
		{
			name:    "unknown flags ignored",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "flag followed by another flag has no value",
			args:    []string{"-c", "-notvalue"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "multiple allowed flags keep order",
			args:    []string{"-a", "localhost:8080", "-j", "jwt", "--other", "x"},
			allowed: []string{"-j", "-a"},
			want:    []string{"-a", "localhost:8080", "-j", "jwt"},
		},
		{
			name:    "empty args",
			args:    []string{},
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "a.json", ConfigPath([]string{"-a", ":8080", "-c", "a.json"}))
	assert.Equal(t, "b.json", ConfigPath([]string{"-config=b.json"}))
	assert.Equal(t, "", ConfigPath([]string{"-a", ":8080"}))
}
