// Package motivate produces the short encouragement shown after logging a
// response.
package motivate

import (
	"fmt"

	"callsheet/internal/model"
)

// Message accompanies a recorded response.
type Message struct {
	Text  string `json:"text"`
	Tone  string `json:"tone"`
	Emoji string `json:"emoji"`
}

// For picks a message from the logged kind and the day's progress so far.
// attempted includes the response just logged.
func For(kind model.Kind, attempted, target int) Message {
	remaining := target - attempted

	if kind.Successful() && remaining == 1 {
		return Message{
			Text:  "You're on Rampage, let's get it done!",
			Tone:  "rampage",
			Emoji: "⚡🔥",
		}
	}
	switch {
	case kind.Successful() && remaining <= 0:
		return Message{
			Text:  "Target achieved! Keep the momentum going!",
			Tone:  "success",
			Emoji: "🎉🏆",
		}
	case kind.Successful():
		return Message{
			Text:  fmt.Sprintf("Great, %d to go!", remaining),
			Tone:  "success",
			Emoji: "🎉",
		}
	case kind == model.KindNA:
		return Message{
			Text:  "Call this guy next time, let's go for next!",
			Tone:  "followup",
			Emoji: "🔥",
		}
	default: // DNP
		return Message{
			Text:  "Someone's waiting for your call. Let's reach till there!",
			Tone:  "retry",
			Emoji: "🔥🔥",
		}
	}
}
