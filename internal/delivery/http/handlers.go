package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/quran"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/service"
)

type verseResponse struct {
	Main  string   `json:"main"`
	Next2 []string `json:"next2"`
	Prev2 []string `json:"prev2"`
}

type questionResponse struct {
	Chapter int `json:"chapter"`
	Verse   int `json:"verse"`
	Page    int `json:"page"`
}

type questionsResponse struct {
	Questions []questionResponse `json:"questions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GetVerseHandler returns a verse with the two verses after and before it.
// GET /api/verse?chapter=2&verse=255
func GetVerseHandler(resolver VerseContextResolver, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chapter, err1 := strconv.Atoi(r.URL.Query().Get("chapter"))
		verse, err2 := strconv.Atoi(r.URL.Query().Get("verse"))
		ref := entities.VerseRef{Chapter: chapter, Verse: verse}
		if err1 != nil || err2 != nil || !ref.Valid() {
			writeError(w, http.StatusBadRequest, "chapter and verse must be positive integers, chapter at most 114")
			return
		}

		vc, err := resolver.ResolveContext(r.Context(), ref)
		if err != nil {
			if errors.Is(err, service.ErrInvalidReference) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			if errors.Is(err, quran.ErrVerseNotFound) {
				writeError(w, http.StatusNotFound, "verse not found")
				return
			}
			logger.Warn("verse request failed",
				zap.String("verse", ref.Key()),
				zap.Error(err),
			)
			writeError(w, http.StatusBadGateway, "failed to fetch verse")
			return
		}

		writeJSON(w, http.StatusOK, verseResponse{
			Main:  vc.Main,
			Next2: vc.NextTexts(),
			Prev2: vc.PrevTexts(),
		})
	}
}

// GetQuestionsHandler samples a question set for the selected juz.
// GET /api/questions?juz=1,2,30
func GetQuestionsHandler(questions QuestionGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		selected, err := parseJuzList(r.URL.Query().Get("juz"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		qs, err := questions.GenerateQuestions(r.Context(), selected)
		switch {
		case errors.Is(err, service.ErrInvalidSection), errors.Is(err, service.ErrNoSectionsSelected):
			writeError(w, http.StatusBadRequest, err.Error())
			return
		case errors.Is(err, service.ErrNoQuestionsAvailable):
			writeError(w, http.StatusNotFound, err.Error())
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "failed to generate questions")
			return
		}

		resp := questionsResponse{Questions: make([]questionResponse, 0, len(qs))}
		for _, q := range qs {
			resp.Questions = append(resp.Questions, questionResponse{Chapter: q.Chapter, Verse: q.Verse, Page: q.Page})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func parseJuzList(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.New("juz must be a comma separated list of numbers")
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, service.ErrNoSectionsSelected
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
