package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackgroundFromColorFGBG(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{raw: "", wantOK: false},
		{raw: "15;0", want: 0, wantOK: true},
		{raw: "15;4", want: 4, wantOK: true},
		{raw: "15;default;12", want: 12, wantOK: true},
		{raw: "15;default", wantOK: false},
		{raw: " 7 ; 4 ", want: 4, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := backgroundFromColorFGBG(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestIsBlueIndex(t *testing.T) {
	assert.True(t, isBlueIndex(4))
	assert.True(t, isBlueIndex(12))
	assert.False(t, isBlueIndex(0))
	assert.False(t, isBlueIndex(14))
}
