package telegram

import (
	"errors"
	"testing"
)

func TestJuzCallbackRoundTrip(t *testing.T) {
	tests := []struct {
		data string
		want juzCommand
	}{
		{buildJuzToggleCallback(30), juzCommand{SubAction: juzToggle, Value: 30}},
		{buildJuzGroupCallback(6), juzCommand{SubAction: juzGroup, Value: 6}},
		{buildJuzAllCallback(), juzCommand{SubAction: juzAll}},
		{buildJuzStartCallback(), juzCommand{SubAction: juzStart}},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			got, err := parseJuzCallback(decodeCallback(tt.data))
			if err != nil {
				t.Fatalf("parseJuzCallback(%q): %v", tt.data, err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseJuzCallbackRejects(t *testing.T) {
	for _, data := range []string{
		"juz",
		"juz:toggle",
		"juz:toggle:0",
		"juz:toggle:31",
		"juz:toggle:x",
		"juz:group:7",
		"juz:all:1",
		"juz:drop:1",
		"quiz:1:continue",
	} {
		if _, err := parseJuzCallback(decodeCallback(data)); !errors.Is(err, errInvalidCallback) {
			t.Errorf("parseJuzCallback(%q) error = %v, want errInvalidCallback", data, err)
		}
	}
}

func TestQuizCallbackRoundTrip(t *testing.T) {
	tests := []struct {
		data string
		want quizCommand
	}{
		{buildQuizChoiceCallback(3, 2), quizCommand{Question: 3, SubAction: quizChoice, Index: 2}},
		{buildQuizCallback(1, quizContinue), quizCommand{Question: 1, SubAction: quizContinue}},
		{buildQuizCallback(10, quizReveal), quizCommand{Question: 10, SubAction: quizReveal}},
		{buildQuizRecallCallback(4, quizNext, true), quizCommand{Question: 4, SubAction: quizNext, Yes: true}},
		{buildQuizRecallCallback(4, quizPrev, false), quizCommand{Question: 4, SubAction: quizPrev}},
		{buildQuizRestartCallback(), quizCommand{SubAction: quizRestart}},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			got, err := parseQuizCallback(decodeCallback(tt.data))
			if err != nil {
				t.Fatalf("parseQuizCallback(%q): %v", tt.data, err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseQuizCallbackRejects(t *testing.T) {
	for _, data := range []string{
		"quiz",
		"quiz:continue",
		"quiz:0:continue",
		"quiz:x:continue",
		"quiz:1:continue:extra",
		"quiz:1:choice",
		"quiz:1:choice:-1",
		"quiz:1:next:maybe",
		"quiz:1:prev",
		"quiz:1:skip",
		"juz:all",
	} {
		if _, err := parseQuizCallback(decodeCallback(data)); !errors.Is(err, errInvalidCallback) {
			t.Errorf("parseQuizCallback(%q) error = %v, want errInvalidCallback", data, err)
		}
	}
}

func TestCallbackDataFitsTelegramLimit(t *testing.T) {
	for _, data := range []string{
		buildJuzToggleCallback(30),
		buildJuzGroupCallback(6),
		buildQuizChoiceCallback(10, 3),
		buildQuizRecallCallback(10, quizPrev, false),
	} {
		if len(data) > 64 {
			t.Errorf("%q is %d bytes, Telegram allows 64", data, len(data))
		}
	}
}

func TestJuzGroupMembers(t *testing.T) {
	got := juzGroupMembers(6)
	want := []int{26, 27, 28, 29, 30}
	if len(got) != len(want) {
		t.Fatalf("juzGroupMembers(6) = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("juzGroupMembers(6) = %v, want %v", got, want)
		}
	}
}
