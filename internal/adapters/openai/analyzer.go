// Package openai produces the four-section French sentiment summary over a
// hotel's recent reviews via the chat-completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"hotel_reviews/internal/adapters/observability"
	"hotel_reviews/internal/domain"
)

const (
	model       = "gpt-4o-mini"
	temperature = 0.7
	maxTokens   = 1000
)

type Analyzer struct {
	base    string
	key     string
	hc      *http.Client
	breaker *gobreaker.CircuitBreaker
}

func New(base, key string) (*Analyzer, error) {
	if key == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "openai",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Analyzer{
		base:    strings.TrimRight(base, "/"),
		key:     key,
		hc:      &http.Client{Timeout: 60 * time.Second},
		breaker: cb,
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Analyze sends the last reviews to the model and splits the answer on the
// four mandated headers. An answer where no section could be extracted is a
// parsing failure, not a success with empty fields.
func (a *Analyzer) Analyze(ctx context.Context, hotel domain.Hotel, reviews []domain.Review) (domain.Analysis, error) {
	if len(reviews) == 0 {
		return domain.Analysis{}, domain.ErrAnalysisInput
	}

	log.Info().
		Str("hotel", hotel.Name).
		Int("reviews", len(reviews)).
		Msg("requesting sentiment analysis")

	content, err := a.complete(ctx, prompt(hotel, reviews))
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("sentiment analysis: %w", err)
	}

	sections := splitSections(content)
	if sections["note_globale"] == "" && sections["analyse_des_sentiments"] == "" &&
		sections["insights"] == "" && sections["conclusion"] == "" {
		log.Warn().Str("hotel", hotel.Name).Msg("analysis response had no recognizable section")
		return domain.Analysis{}, domain.ErrAnalysisParse
	}

	return domain.Analysis{
		HotelName:            hotel.Name,
		Brand:                hotel.Brand,
		NoteGlobale:          sections["note_globale"],
		AnalyseDesSentiments: sections["analyse_des_sentiments"],
		Insights:             sections["insights"],
		Conclusion:           sections["conclusion"],
	}, nil
}

func (a *Analyzer) complete(ctx context.Context, userPrompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: "Vous êtes un analyste expert en hôtellerie."},
			{Role: "user", Content: userPrompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}

	out, err := a.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.base+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+a.key)
		req.Header.Set("Content-Type", "application/json")

		start := time.Now()
		resp, err := a.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("openai", "chat", 0, time.Since(start))
			return nil, err
		}
		defer resp.Body.Close()
		observability.ObserveExternal("openai", "chat", resp.StatusCode, time.Since(start))

		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return nil, fmt.Errorf("openai: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
		var cr chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
			return nil, err
		}
		if len(cr.Choices) == 0 {
			return nil, fmt.Errorf("openai: response without choices")
		}
		return strings.TrimSpace(cr.Choices[0].Message.Content), nil
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func prompt(hotel domain.Hotel, reviews []domain.Review) string {
	type promptReview struct {
		Titre           string `json:"titre"`
		Texte           string `json:"texte"`
		Note            int    `json:"note"`
		DatePublication string `json:"date_publication"`
		TypeVoyage      string `json:"type_voyage"`
	}
	prs := make([]promptReview, 0, len(reviews))
	for _, r := range reviews {
		tt := "Non spécifié"
		if r.TripType != nil && *r.TripType != "" {
			tt = *r.TripType
		}
		prs = append(prs, promptReview{
			Titre:           r.Title,
			Texte:           r.Text,
			Note:            r.Rating,
			DatePublication: r.PublishedDate.Format(time.RFC3339),
			TypeVoyage:      tt,
		})
	}
	data, _ := json.Marshal(prs)

	return fmt.Sprintf(`
Vous êtes un expert en analyse de sentiments pour des hôtels en France. Analysez les données suivantes pour l'hôtel "%s" de la marque "%s":

Données des %d derniers avis :
%s

Fournissez une réponse structurée en français avec les sections suivantes, marquées clairement avec des en-têtes :
**Note Globale** : Calculez la moyenne des notes des avis (sur 5).
**Analyse des Sentiments** : Pour chaque avis, indiquez si le sentiment est positif, négatif ou neutre, et résumez le sentiment global.
**Insights** : Identifiez les thèmes récurrents (par exemple, points forts comme le service, points faibles comme la propreté).
**Conclusion** : Résumez la performance de l'hôtel et donnez une recommandation.

La réponse doit être claire, concise et en français. Utilisez les en-têtes exacts ci-dessus.
`, hotel.Name, hotel.Brand, len(prs), data)
}

var sectionHeaders = []struct {
	prefix string
	key    string
}{
	{"**Note Globale**", "note_globale"},
	{"**Analyse des Sentiments**", "analyse_des_sentiments"},
	{"**Insights**", "insights"},
	{"**Conclusion**", "conclusion"},
}

func splitSections(text string) map[string]string {
	sections := map[string]string{}
	current := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		matched := false
		for _, h := range sectionHeaders {
			if strings.HasPrefix(line, h.prefix) {
				current = h.key
				matched = true
				// content may follow the header on the same line
				rest := strings.TrimLeft(strings.TrimPrefix(line, h.prefix), " :")
				if rest != "" {
					sections[current] += rest + "\n"
				}
				break
			}
		}
		if matched || current == "" || line == "" {
			continue
		}
		sections[current] += line + "\n"
	}
	for k, v := range sections {
		sections[k] = strings.TrimSpace(v)
	}
	return sections
}
