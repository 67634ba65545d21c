package department

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		usn  string
		want Label
	}{
		{"4MW21AD043", AIDS},
		{"4MW21CS099", CSE},
		{"4MW21EC007", ENC},
		{"4MW21AI001", AIML},
		{"4mw21ad043", AIDS},          // case-insensitive match
		{"4MW2021CS001", CSE},         // longer digit run still matches
		{"garbage", AIML},             // no match degrades to default
		{"", AIML},                    // empty input never errors
		{"5XY21CS001", AIML},          // wrong institution prefix
		{"4MW21ME001", AIML},          // unmapped branch code
	}

	for _, tt := range tests {
		t.Run(tt.usn, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.usn))
		})
	}
}
