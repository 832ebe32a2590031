package submission

import (
	"errors"
	"fmt"
	"strings"
)

// Intent selects which collaborator a submission targets.
type Intent string

const (
	IntentTrain   Intent = "train"
	IntentPredict Intent = "predict"
)

// ErrUnknownIntent is returned by ParseIntent for anything other than train
// or predict.
var ErrUnknownIntent = errors.New("submission: unknown intent")

// ParseIntent parses user supplied intent names, case-insensitively.
func ParseIntent(value string) (Intent, error) {
	switch Intent(strings.ToLower(strings.TrimSpace(value))) {
	case IntentTrain:
		return IntentTrain, nil
	case IntentPredict:
		return IntentPredict, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownIntent, value)
	}
}

// Valid reports whether i is one of the two known intents.
func (i Intent) Valid() bool {
	return i == IntentTrain || i == IntentPredict
}

func (i Intent) String() string {
	return string(i)
}
