package bot

import "time"

// Strategy decides how a bot answers a problem: the value it submits and
// how long it pretends to think about it
type Strategy interface {
	// Answer produces the bot's submission for a problem with the given
	// correct answer at the given level (1-3)
	Answer(correct int, level int) (value int, thinkTime time.Duration)
}
