package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
)

// Callback action constants.
const (
	actionJuz  = "juz"
	actionQuiz = "quiz"
)

// Juz selection sub-actions.
const (
	juzToggle = "toggle"
	juzGroup  = "group"
	juzAll    = "all"
	juzStart  = "start"
)

// Quiz sub-actions. All but restart are prefixed with the question number.
const (
	quizChoice   = "choice"
	quizContinue = "continue"
	quizReveal   = "reveal"
	quizNext     = "next"
	quizPrev     = "prev"
	quizRestart  = "restart"
)

const (
	answerYes = "yes"
	answerNo  = "no"
)

const (
	juzPerGroup = 5
	juzGroups   = entities.TotalJuz / juzPerGroup
)

var errInvalidCallback = errors.New("invalid callback data")

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func buildJuzToggleCallback(juz int) string {
	return callbackData{Action: actionJuz, Params: []string{juzToggle, strconv.Itoa(juz)}}.encode()
}

func buildJuzGroupCallback(group int) string {
	return callbackData{Action: actionJuz, Params: []string{juzGroup, strconv.Itoa(group)}}.encode()
}

func buildJuzAllCallback() string {
	return callbackData{Action: actionJuz, Params: []string{juzAll}}.encode()
}

func buildJuzStartCallback() string {
	return callbackData{Action: actionJuz, Params: []string{juzStart}}.encode()
}

// buildQuizCallback builds callback data for an action on question number q.
func buildQuizCallback(q int, subAction string, value ...string) string {
	params := []string{strconv.Itoa(q), subAction}
	params = append(params, value...)
	return callbackData{Action: actionQuiz, Params: params}.encode()
}

func buildQuizChoiceCallback(q, index int) string {
	return buildQuizCallback(q, quizChoice, strconv.Itoa(index))
}

func buildQuizRecallCallback(q int, subAction string, yes bool) string {
	answer := answerNo
	if yes {
		answer = answerYes
	}
	return buildQuizCallback(q, subAction, answer)
}

func buildQuizRestartCallback() string {
	return callbackData{Action: actionQuiz, Params: []string{quizRestart}}.encode()
}

// juzCommand is a decoded juz:* callback.
type juzCommand struct {
	SubAction string
	Value     int // juz for toggle, group for group
}

func parseJuzCallback(cd callbackData) (juzCommand, error) {
	if cd.Action != actionJuz || len(cd.Params) == 0 {
		return juzCommand{}, fmt.Errorf("%w: %q", errInvalidCallback, cd.Raw)
	}

	cmd := juzCommand{SubAction: cd.Params[0]}
	switch cmd.SubAction {
	case juzAll, juzStart:
		if len(cd.Params) != 1 {
			return juzCommand{}, fmt.Errorf("%w: %q", errInvalidCallback, cd.Raw)
		}
		return cmd, nil
	case juzToggle, juzGroup:
		if len(cd.Params) != 2 {
			return juzCommand{}, fmt.Errorf("%w: %q", errInvalidCallback, cd.Raw)
		}
		n, err := strconv.Atoi(cd.Params[1])
		if err != nil {
			return juzCommand{}, fmt.Errorf("%w: %q", errInvalidCallback, cd.Raw)
		}
		limit := entities.TotalJuz
		if cmd.SubAction == juzGroup {
			limit = juzGroups
		}
		if n < 1 || n > limit {
			return juzCommand{}, fmt.Errorf("%w: %q", errInvalidCallback, cd.Raw)
		}
		cmd.Value = n
		return cmd, nil
	default:
		return juzCommand{}, fmt.Errorf("%w: %q", errInvalidCallback, cd.Raw)
	}
}

// quizCommand is a decoded quiz:* callback.
type quizCommand struct {
	Question  int // 1-based question number the button belongs to
	SubAction string
	Index     int  // option index for choice
	Yes       bool // answer for next and prev
}

func parseQuizCallback(cd callbackData) (quizCommand, error) {
	bad := func() (quizCommand, error) {
		return quizCommand{}, fmt.Errorf("%w: %q", errInvalidCallback, cd.Raw)
	}

	if cd.Action != actionQuiz || len(cd.Params) == 0 {
		return bad()
	}
	if len(cd.Params) == 1 {
		if cd.Params[0] == quizRestart {
			return quizCommand{SubAction: quizRestart}, nil
		}
		return bad()
	}

	q, err := strconv.Atoi(cd.Params[0])
	if err != nil || q < 1 {
		return bad()
	}
	cmd := quizCommand{Question: q, SubAction: cd.Params[1]}
	args := cd.Params[2:]

	switch cmd.SubAction {
	case quizContinue, quizReveal:
		if len(args) != 0 {
			return bad()
		}
	case quizChoice:
		if len(args) != 1 {
			return bad()
		}
		if cmd.Index, err = strconv.Atoi(args[0]); err != nil || cmd.Index < 0 {
			return bad()
		}
	case quizNext, quizPrev:
		if len(args) != 1 || (args[0] != answerYes && args[0] != answerNo) {
			return bad()
		}
		cmd.Yes = args[0] == answerYes
	default:
		return bad()
	}

	return cmd, nil
}

// juzGroupMembers returns the five juz of a selection keyboard row.
func juzGroupMembers(group int) []int {
	out := make([]int, 0, juzPerGroup)
	for j := (group-1)*juzPerGroup + 1; j <= group*juzPerGroup; j++ {
		out = append(out, j)
	}
	return out
}
