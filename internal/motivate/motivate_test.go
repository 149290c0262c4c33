package motivate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"callsheet/internal/model"
)

func TestFor(t *testing.T) {
	cases := []struct {
		name      string
		kind      model.Kind
		attempted int
		target    int
		tone      string
	}{
		{"one away is rampage", model.KindA, 4, 5, "rampage"},
		{"target met", model.KindB, 5, 5, "success"},
		{"plain success", model.KindC, 1, 5, "success"},
		{"na asks for followup", model.KindNA, 1, 5, "followup"},
		{"dnp asks for retry", model.KindDNP, 1, 5, "retry"},
		{"dnp one away is still retry", model.KindDNP, 4, 5, "retry"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := For(tc.kind, tc.attempted, tc.target)
			require.Equal(t, tc.tone, msg.Tone)
			require.NotEmpty(t, msg.Text)
			require.NotEmpty(t, msg.Emoji)
		})
	}
}

func TestForCountsRemaining(t *testing.T) {
	msg := For(model.KindA, 2, 5)
	require.Equal(t, "Great, 3 to go!", msg.Text)
}
