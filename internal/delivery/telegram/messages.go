// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
)

// Error and status messages.
const (
	msgInternalError      = "Something went wrong. Please try again later."
	msgUnknownCommand     = "Unknown command. Send /help to see what I can do."
	msgNoActiveQuiz       = "You have no quiz in progress. Send /quiz to start one."
	msgSelectJuzFirst     = "Select at least one juz first."
	msgOutdatedButton     = "This question is no longer active."
	msgQuizUnavailable    = "Could not prepare a quiz for this selection. Please try again later."
	msgNoQuestions        = "No verses are available for the selected juz."
	msgActionNotAvailable = "This action is not available right now."
)

const lrm = "‎"

func msgWelcome() string {
	var sb strings.Builder

	sb.WriteString(bold("اختبار حفظ القرآن"))
	sb.WriteString("\n")
	sb.WriteString(bold("Qur'an Memorization Quiz"))
	sb.WriteString("\n\n")

	sb.WriteString(md("عَنْ أَبِي مُوسَى، عَنِ النَّبِيِّ صلى الله عليه وسلم قَالَ «تَعَاهَدُوا الْقُرْآنَ فَوَالَّذِي نَفْسِي بِيَدِهِ لَهُوَ أَشَدُّ تَفَصِّيًا مِنَ الإِبِلِ فِي عُقُلِهَا»"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Narrated Abu Musa: The Prophet (ﷺ) said, \"Commit yourself to the Qur'an, for by Him in whose Hand is my soul, it is surely more prone to break away than a camel in its bind.\""))
	sb.WriteString("\n")
	sb.WriteString(italic("Sahih al-Bukhari 5033"))
	sb.WriteString("\n\n")

	sb.WriteString(md("• Select the juz you have memorized.\n"))
	sb.WriteString(md("• Name the surah of each verse, then recite the two verses after it and the two before it.\n"))
	sb.WriteString(md("• See how well you do, revise, and hold on to the Qur'an.\n\n"))
	sb.WriteString(md("Send /quiz to begin."))

	return sb.String()
}

func msgHelp() string {
	return md("/quiz: choose juz and start a quiz\n" +
		"/score: show the score of the current quiz\n" +
		"/start: introduction\n" +
		"/help: this message\n\n" +
		fmt.Sprintf("Scoring: %d points for the right surah, %d for recalling the next two verses, %d for recalling the previous two.",
			entities.PointsChapter, entities.PointsRecallNext, entities.PointsRecallPrev))
}

func msgSelectJuz(selected []int) string {
	text := bold("Which juz have you memorized?") + "\n\n" +
		md("Tap a juz to toggle it, a range to toggle five at once.")
	if len(selected) > 0 {
		text += "\n\n" + md("Selected: "+formatJuzList(selected))
	}
	return text
}

func msgQuizStarting(selected []int, total int) string {
	return md(fmt.Sprintf("Starting a quiz of %d questions from juz %s.", total, formatJuzList(selected)))
}

// formatJuzList renders [1 2 3 7 29 30] as "1–3, 7, 29–30".
func formatJuzList(juz []int) string {
	if len(juz) == 0 {
		return ""
	}

	var parts []string
	start, prev := juz[0], juz[0]
	flush := func() {
		if start == prev {
			parts = append(parts, strconv.Itoa(start))
		} else {
			parts = append(parts, strconv.Itoa(start)+"–"+strconv.Itoa(prev))
		}
	}

	for _, j := range juz[1:] {
		if j == prev+1 {
			prev = j
			continue
		}
		flush()
		start, prev = j, j
	}
	flush()

	return strings.Join(parts, ", ")
}

func chapterLabel(number int, names map[int]*entities.Chapter) string {
	ch, ok := names[number]
	if !ok || ch == nil {
		return "Surah " + strconv.Itoa(number)
	}
	return fmt.Sprintf("%d. %s · %s%s", ch.Number, ch.EnglishName, ch.ArabicName, lrm)
}

func maxScore(total int) int {
	return total * (entities.PointsChapter + entities.PointsRecallNext + entities.PointsRecallPrev)
}

// renderQuestion renders the text of the question message for the session's
// current stage. The matching keyboard comes from buildQuestionKeyboard.
func renderQuestion(s *entities.QuizSession, names map[int]*entities.Chapter) string {
	if s.IsComplete() {
		return renderResult(s, names)
	}

	q, _ := s.CurrentQuestion()

	var sb strings.Builder
	sb.WriteString(bold(fmt.Sprintf("Question %d/%d", s.QuestionNumber(), s.Total())))
	sb.WriteString(md(fmt.Sprintf(" · Score: %d", s.Score)))
	sb.WriteString("\n\n")
	sb.WriteString(renderMainVerse(s))
	sb.WriteString("\n\n")

	switch s.Stage {
	case entities.StageMultipleChoice:
		if !s.Locked {
			sb.WriteString(md("Which surah is this verse from?"))
			break
		}
		sb.WriteString(renderChoiceResult(s, q, names))

	case entities.StageRecallNext:
		sb.WriteString(md(fmt.Sprintf("%s (%s)", chapterLabel(q.Chapter, names), q.Ref())))
		sb.WriteString("\n\n")
		sb.WriteString(bold("Can you recite the next two verses?"))
		if s.Revealed {
			sb.WriteString("\n\n")
			sb.WriteString(renderNeighbours(s, true))
			sb.WriteString("\n\n")
			sb.WriteString(md("Did you remember them?"))
		}

	case entities.StageRecallPrev:
		sb.WriteString(md(fmt.Sprintf("%s (%s)", chapterLabel(q.Chapter, names), q.Ref())))
		sb.WriteString("\n\n")
		sb.WriteString(bold("Can you recite the two verses before it?"))
		if s.Revealed {
			sb.WriteString("\n\n")
			sb.WriteString(renderNeighbours(s, false))
			sb.WriteString("\n\n")
			sb.WriteString(md("Did you remember them?"))
		}
	}

	return sb.String()
}

func renderMainVerse(s *entities.QuizSession) string {
	switch {
	case s.Context != nil:
		return md(s.Context.Main)
	case s.ContextErr != nil:
		return italic("The verse text is not available right now. You can still answer or skip.")
	default:
		return italic("Loading verse…")
	}
}

func renderChoiceResult(s *entities.QuizSession, q entities.Question, names map[int]*entities.Chapter) string {
	answer := fmt.Sprintf("%s (%s)", chapterLabel(q.Chapter, names), q.Ref())

	if s.Selected >= 0 && s.Selected < len(s.Options) && s.Options[s.Selected].Correct {
		return md(fmt.Sprintf("✅ Correct! +%d\n%s", entities.PointsChapter, answer))
	}

	chosen := ""
	if s.Selected >= 0 && s.Selected < len(s.Options) {
		chosen = "\nYou chose " + chapterLabel(s.Options[s.Selected].Chapter, names) + "."
	}
	return md("❌ The verse is from " + answer + "." + chosen)
}

// renderNeighbours lists the revealed following (next=true) or preceding verses.
func renderNeighbours(s *entities.QuizSession, next bool) string {
	if s.Context == nil {
		return italic("The verses are not available right now.")
	}

	verses := s.Context.Prev
	if next {
		verses = s.Context.Next
	}
	if len(verses) == 0 {
		return italic("No verses available on this side.")
	}

	lines := lo.Map(verses, func(v entities.VerseText, _ int) string {
		return md(v.Text) + " " + md("("+v.Ref.Key()+")")
	})
	return strings.Join(lines, "\n\n")
}

func renderResult(s *entities.QuizSession, names map[int]*entities.Chapter) string {
	var sb strings.Builder

	sb.WriteString(bold("Quiz complete!"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("Score: %d / %d", s.Score, maxScore(s.Total()))))
	sb.WriteString("\n\n")
	sb.WriteString(md("Verses in this quiz:"))
	sb.WriteString("\n")
	for i, ref := range s.QuizzedRefs() {
		sb.WriteString(md(fmt.Sprintf("%d. %s (%s)", i+1, chapterLabel(ref.Chapter, names), ref)))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(md("Revise, and hold on strong to the Qur'an."))

	return sb.String()
}

func msgScore(s *entities.QuizSession) string {
	if s.IsComplete() {
		return md(fmt.Sprintf("Your last quiz is complete. Score: %d / %d.", s.Score, maxScore(s.Total())))
	}
	return md(fmt.Sprintf("Question %d of %d. Score so far: %d.", s.QuestionNumber(), s.Total(), s.Score))
}
