package telegram

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
)

// buildJuzKeyboard builds the juz selection grid: six rows of five juz,
// a row of range toggles, then "all" and "start".
func buildJuzKeyboard(isSelected func(juz int) bool) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, juzGroups+3)

	for g := 1; g <= juzGroups; g++ {
		row := make([]tgbotapi.InlineKeyboardButton, 0, juzPerGroup)
		for _, juz := range juzGroupMembers(g) {
			label := strconv.Itoa(juz)
			if isSelected(juz) {
				label = "✅ " + label
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildJuzToggleCallback(juz)))
		}
		rows = append(rows, row)
	}

	groupRow := make([]tgbotapi.InlineKeyboardButton, 0, juzGroups)
	for g := 1; g <= juzGroups; g++ {
		members := juzGroupMembers(g)
		label := fmt.Sprintf("%d–%d", members[0], members[len(members)-1])
		groupRow = append(groupRow, tgbotapi.NewInlineKeyboardButtonData(label, buildJuzGroupCallback(g)))
	}
	rows = append(rows, groupRow)

	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("☑️ All 30", buildJuzAllCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶️ Start quiz", buildJuzStartCallback()),
		),
	)

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildQuestionKeyboard builds the keyboard for the session's current stage.
func buildQuestionKeyboard(s *entities.QuizSession, names map[int]*entities.Chapter) tgbotapi.InlineKeyboardMarkup {
	if s.IsComplete() {
		return buildQuizResultKeyboard()
	}

	q := s.QuestionNumber()

	switch s.Stage {
	case entities.StageMultipleChoice:
		if s.Locked {
			return tgbotapi.NewInlineKeyboardMarkup(
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData("Continue ▶️", buildQuizCallback(q, quizContinue)),
				),
			)
		}

		var rows [][]tgbotapi.InlineKeyboardButton
		for i, option := range s.Options {
			button := tgbotapi.NewInlineKeyboardButtonData(chapterLabel(option.Chapter, names), buildQuizChoiceCallback(q, i))
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(button))
		}
		return tgbotapi.NewInlineKeyboardMarkup(rows...)

	case entities.StageRecallNext:
		return buildRecallKeyboard(q, quizNext, s.Revealed)

	case entities.StageRecallPrev:
		return buildRecallKeyboard(q, quizPrev, s.Revealed)
	}

	return tgbotapi.NewInlineKeyboardMarkup()
}

func buildRecallKeyboard(q int, subAction string, revealed bool) tgbotapi.InlineKeyboardMarkup {
	if !revealed {
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("👁 Show answer", buildQuizCallback(q, quizReveal)),
			),
		)
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes", buildQuizRecallCallback(q, subAction, true)),
			tgbotapi.NewInlineKeyboardButtonData("❌ No", buildQuizRecallCallback(q, subAction, false)),
		),
	)
}

// buildQuizResultKeyboard builds keyboard for quiz results screen.
func buildQuizResultKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 New quiz", buildQuizRestartCallback()),
		),
	)
}

func emptyKeyboard() *tgbotapi.InlineKeyboardMarkup {
	return &tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
}
