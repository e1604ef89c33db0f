package main

import (
	"context"
	"encoding/json"
	"github.com/PuerkitoBio/goquery"
	"github.com/homecrimes/caseroom/internal/accesscode"
	"github.com/homecrimes/caseroom/internal/acts"
	"github.com/homecrimes/caseroom/internal/content"
	"github.com/homecrimes/caseroom/internal/e2etest"
	"github.com/homecrimes/caseroom/internal/models"
	"github.com/homecrimes/caseroom/internal/testhelpers"
	"github.com/homecrimes/caseroom/internal/theory"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
)

const paidSession = "cs_test_paid"

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "CASEROOM_ADDR":
		return "localhost:0", true
	case "CASEROOM_SQLITE_URL":
		return ":memory:", true
	case "CASEROOM_CHECKOUT_SESSIONS":
		return paidSession + "=" + content.FallbackSlug, true
	default:
		return "", false
	}
}

// withEnv overrides single variables of testLookupEnv.
func withEnv(overrides map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := overrides[key]; ok {
			return v, true
		}
		return testLookupEnv(key)
	}
}

func startTestServer(t *testing.T, lookupEnv func(string) (string, bool)) *e2etest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	server, err := e2etest.StartServer(ctx, io.Discard, lookupEnv, run)
	require.NoError(t, err)
	return server
}

func flash(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("p.flash").Text())
}

func fallbackCase(t *testing.T) models.Content {
	t.Helper()
	c, err := content.LoadFallback(testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	return c
}

func TestHome(t *testing.T) {
	server := startTestServer(t, testLookupEnv)
	doc, err := server.Client().GetDoc(context.Background(), "/")
	require.NoError(t, err)

	assert.Equal(t, 1, doc.Find("form[action='/access'] input[name=code]").Length())
	assert.Equal(t, 0, doc.Find("form[action='/logout']").Length(), "no logout without access")
}

func TestAccess(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t, testLookupEnv)

	issued, err := accesscode.NewCodec("").Issue(accesscode.Payload{ProductSlug: content.FallbackSlug, SessionID: paidSession})
	require.NoError(t, err)

	tests := []struct {
		name      string
		code      string
		wantTitle string
		wantFlash string
	}{
		{name: "demo code", code: accesscode.DemoCode, wantTitle: "Los Hijos del Acantilado"},
		{name: "demo code in lower case", code: strings.ToLower(accesscode.DemoCode), wantTitle: "Los Hijos del Acantilado"},
		{name: "issued code", code: issued, wantTitle: "Los Hijos del Acantilado"},
		{name: "tampered code", code: issued[:len(issued)-1] + "X", wantFlash: msgInvalidCode},
		{name: "garbage", code: "HC-NOPE", wantFlash: msgInvalidCode},
		{name: "empty", code: "   ", wantFlash: msgInvalidCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := server.NewClient()
			require.NoError(t, err)
			doc, err := client.Redeem(ctx, tt.code)
			require.NoError(t, err)
			if tt.wantTitle != "" {
				assert.Equal(t, tt.wantTitle, strings.TrimSpace(doc.Find("#briefing h1").Text()))
				assert.Equal(t, 1, doc.Find("form[action='/logout']").Length())
				return
			}
			assert.Equal(t, tt.wantFlash, flash(doc))
			assert.Equal(t, 0, doc.Find("#briefing").Length())
		})
	}
}

func TestAccess_rateLimited(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t, withEnv(map[string]string{"CASEROOM_ACCESS_ATTEMPTS": "2"}))
	client := server.Client()

	for range 2 {
		doc, err := client.Redeem(ctx, "HC-NOPE")
		require.NoError(t, err)
		require.Equal(t, msgInvalidCode, flash(doc))
	}
	doc, err := client.Redeem(ctx, accesscode.DemoCode)
	require.NoError(t, err)
	assert.Equal(t, msgTooManyAttempts, flash(doc))
}

func TestCaseRoom_requiresAccess(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t, testLookupEnv)
	client := server.Client()

	doc, err := client.GetDoc(ctx, "/case")
	require.NoError(t, err)
	assert.Equal(t, msgAccessRequired, flash(doc))

	_, err = client.Redeem(ctx, accesscode.DemoCode)
	require.NoError(t, err)
	_, err = client.Logout(ctx)
	require.NoError(t, err)

	doc, err = client.GetDoc(ctx, "/case")
	require.NoError(t, err)
	assert.Equal(t, msgAccessRequired, flash(doc))
}

func TestCaseRoom_play(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t, testLookupEnv)
	client := server.Client()

	doc, err := client.Redeem(ctx, accesscode.DemoCode)
	require.NoError(t, err)
	require.Equal(t, "1/4", strings.TrimSpace(doc.Find("#summary-acts").Text()))
	require.True(t, doc.Find("#act-acto-amelia").HasClass("unlocked"))
	require.True(t, doc.Find("#act-acto-vigilia").HasClass("locked"))

	submit := func(t *testing.T, action string, values url.Values) *goquery.Document {
		t.Helper()
		doc, err := client.SubmitForm(ctx, "/case", action, values)
		require.NoError(t, err)
		return doc
	}

	t.Run("wrong act code", func(t *testing.T) {
		doc := submit(t, "/case/acts/acto-vigilia/unlock", url.Values{"code": {"ACANTILADO"}})
		assert.Equal(t, acts.MsgActNoFit, flash(doc))
		assert.True(t, doc.Find("#act-acto-vigilia").HasClass("locked"))
	})

	t.Run("act code ignores case", func(t *testing.T) {
		doc := submit(t, "/case/acts/acto-vigilia/unlock", url.Values{"code": {" hijos "}})
		assert.Equal(t, acts.MsgCodeAccepted, flash(doc))
		assert.True(t, doc.Find("#act-acto-vigilia").HasClass("unlocked"))
		assert.Equal(t, "2/4", strings.TrimSpace(doc.Find("#summary-acts").Text()))
	})

	t.Run("final act waits for the others", func(t *testing.T) {
		doc := submit(t, "/case/acts/acto-revelacion/unlock", url.Values{"code": {"búnkers"}})
		assert.Equal(t, acts.MsgPrerequisites, flash(doc))
		assert.True(t, doc.Find("#act-acto-revelacion").HasClass("locked"))
	})

	t.Run("reveal clue", func(t *testing.T) {
		require.True(t, doc.Find("#clue-pista-calendario").HasClass("hidden"))
		doc := submit(t, "/case/clues/pista-calendario/reveal", url.Values{"solution": {"Marea Viva"}})
		assert.Equal(t, acts.MsgClueRevealed, flash(doc))
		assert.True(t, doc.Find("#clue-pista-calendario").HasClass("revealed"))
	})

	t.Run("correct answer unlocks evidence", func(t *testing.T) {
		require.True(t, doc.Find("#evidence-audio_cueva").HasClass("locked"))
		doc := submit(t, "/case/questions/q_cantos/answer", url.Values{"answer": {"en la cueva"}})
		assert.Equal(t, msgAnswerCorrect, flash(doc))
		assert.True(t, doc.Find("#evidence-audio_cueva").HasClass("unlocked"))
		assert.True(t, doc.Find("#location-cueva").HasClass("unlocked"))
		assert.Equal(t, "1", strings.TrimSpace(doc.Find("#summary-questions").Text()))
	})

	t.Run("chronology answer", func(t *testing.T) {
		doc := submit(t, "/case/questions/q_ruta/answer",
			url.Values{"answer": {"Plaza", "Acantilado", "Cueva", "Búnkers"}})
		assert.Equal(t, msgAnswerCorrect, flash(doc))
		assert.True(t, doc.Find("#evidence-croquis_bunker").HasClass("unlocked"))
	})

	t.Run("wrong answer", func(t *testing.T) {
		doc := submit(t, "/case/questions/q_marea/answer", url.Values{"answer": {"Ocurren solo en invierno"}})
		assert.Equal(t, msgAnswerWrong, flash(doc))
		assert.True(t, doc.Find("#evidence-recorte_iglesia").HasClass("locked"))
	})

	t.Run("missing answer", func(t *testing.T) {
		doc := submit(t, "/case/questions/q_marea/answer", nil)
		assert.Equal(t, msgMissingAnswer, flash(doc))
	})

	t.Run("hints", func(t *testing.T) {
		q, ok := fallbackCase(t).Question("q_marea")
		require.True(t, ok)
		doc := submit(t, "/case/questions/q_marea/hint", nil)
		assert.Equal(t, q.Hints[0], flash(doc))
		doc = submit(t, "/case/questions/q_marea/hint", nil)
		assert.Equal(t, q.Hints[1], flash(doc))
		doc = submit(t, "/case/questions/q_marea/hint", nil)
		assert.Equal(t, q.Hints[1], flash(doc))
		assert.Contains(t, doc.Find("form[action='/case/questions/q_marea/hint'] button").Text(), "(2)")
	})

	t.Run("cycle event status", func(t *testing.T) {
		doc := submit(t, "/case/events/baile/status", nil)
		assert.Equal(t, "Revisado", strings.TrimSpace(doc.Find("#event-baile button.status").Text()))
		doc = submit(t, "/case/events/baile/status", nil)
		assert.Equal(t, "Conclusión provisional", strings.TrimSpace(doc.Find("#event-baile button.status").Text()))
		assert.Equal(t, "1", strings.TrimSpace(doc.Find("#summary-events").Text()))
	})

	t.Run("view evidence", func(t *testing.T) {
		doc := submit(t, "/case/evidence/expediente_amelia/view", nil)
		assert.Equal(t, "1", strings.TrimSpace(doc.Find("#summary-viewed").Text()))
		assert.Equal(t, 0, doc.Find("form[action='/case/evidence/expediente_amelia/view']").Length())
	})

	t.Run("save theory", func(t *testing.T) {
		doc := submit(t, "/case/theories", url.Values{
			"title":    {"Las mareas"},
			"content":  {"Amelia desapareció con marea viva."},
			"evidence": {"expediente_amelia"},
		})
		assert.Equal(t, msgTheorySaved, flash(doc))
		theories := doc.Find("article.theory")
		require.Equal(t, 1, theories.Length())
		var feedback []string
		theories.Find("ul.feedback li").Each(func(_ int, s *goquery.Selection) {
			feedback = append(feedback, strings.TrimSpace(s.Text()))
		})
		assert.Equal(t, []string{theory.MsgConcentratedEvent, theory.MsgExpandDescription}, feedback)
		assert.Equal(t, 0, theories.Find("form").Length(), "review is disabled without an API key")
	})

	t.Run("theory without title", func(t *testing.T) {
		doc := submit(t, "/case/theories", url.Values{"title": {"  "}})
		assert.Equal(t, msgTheoryTitle, flash(doc))
		assert.Equal(t, "1", strings.TrimSpace(doc.Find("#summary-theories").Text()))
	})

	t.Run("progress survives reload", func(t *testing.T) {
		doc, err := client.GetDoc(ctx, "/case")
		require.NoError(t, err)
		assert.True(t, doc.Find("#act-acto-vigilia").HasClass("unlocked"))
		assert.Equal(t, "2", strings.TrimSpace(doc.Find("#summary-questions").Text()))
	})

	t.Run("reset", func(t *testing.T) {
		doc := submit(t, "/case/reset", nil)
		assert.Equal(t, msgCaseReset, flash(doc))
		assert.Equal(t, "1/4", strings.TrimSpace(doc.Find("#summary-acts").Text()))
		assert.Equal(t, "0", strings.TrimSpace(doc.Find("#summary-questions").Text()))
		assert.True(t, doc.Find("#evidence-audio_cueva").HasClass("locked"))
		assert.Equal(t, 0, doc.Find("article.theory").Length())
	})
}

// cmsQuestions replaces the embedded questions with list answers. Every other collection comes from the
// embedded case.
const cmsQuestions = `{"data": [
	{"id": "q_ecos", "attributes": {
		"prompt": "¿Dónde resuenan los cánticos?", "type": "association",
		"options": ["Plaza", "Cueva", "Búnkers"], "answer": ["Cueva", "Búnkers"],
		"hints": ["Busca espacios cerrados junto al mar."],
		"unlocks": {"evidenceIds": ["audio_cueva"]}}},
	{"id": "q_camino", "attributes": {
		"prompt": "¿Por dónde pasaron?", "type": "chronology",
		"options": ["Plaza", "Acantilado", "Cueva", "Búnkers"], "answer": ["Plaza", "Cueva"],
		"unlocks": {"evidenceIds": ["croquis_bunker"]}}}
]}`

type questionsCMS struct {
	loads atomic.Int64
}

func (c *questionsCMS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/questions" {
		http.NotFound(w, r)
		return
	}
	c.loads.Add(1)
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, cmsQuestions)
}

func TestCaseRoom_listAnswers(t *testing.T) {
	ctx := context.Background()
	cms := &questionsCMS{} //nolint:exhaustruct // zero value is ready
	cmsServer := httptest.NewServer(cms)
	t.Cleanup(cmsServer.Close)
	server := startTestServer(t, withEnv(map[string]string{"CASEROOM_CMS_URL": cmsServer.URL}))
	client := server.Client()

	code, err := accesscode.NewCodec("").Issue(accesscode.Payload{ProductSlug: content.FallbackSlug, SessionID: paidSession})
	require.NoError(t, err)
	doc, err := client.Redeem(ctx, code)
	require.NoError(t, err)
	require.Equal(t, 3, doc.Find("#question-q_ecos input[type=checkbox][name=answer]").Length())
	require.Equal(t, 2, doc.Find("#question-q_camino select[name=answer]").Length())
	require.True(t, doc.Find("#evidence-audio_cueva").HasClass("locked"))

	submit := func(t *testing.T, action string, values url.Values) *goquery.Document {
		t.Helper()
		doc, err := client.SubmitForm(ctx, "/case", action, values)
		require.NoError(t, err)
		return doc
	}

	t.Run("partial selection", func(t *testing.T) {
		doc := submit(t, "/case/questions/q_ecos/answer", url.Values{"answer": {"Cueva"}})
		assert.Equal(t, msgAnswerWrong, flash(doc))
		assert.True(t, doc.Find("#evidence-audio_cueva").HasClass("locked"))
	})

	t.Run("every option checked", func(t *testing.T) {
		doc := submit(t, "/case/questions/q_ecos/answer", url.Values{"answer": {"Búnkers", "Cueva"}})
		assert.Equal(t, msgAnswerCorrect, flash(doc))
		assert.True(t, doc.Find("#evidence-audio_cueva").HasClass("unlocked"))
	})

	t.Run("chronology shorter than its options", func(t *testing.T) {
		doc := submit(t, "/case/questions/q_camino/answer", url.Values{"answer": {"Plaza", "Cueva"}})
		assert.Equal(t, msgAnswerCorrect, flash(doc))
		assert.True(t, doc.Find("#evidence-croquis_bunker").HasClass("unlocked"))
	})

	t.Run("reset reloads the content", func(t *testing.T) {
		before := cms.loads.Load()
		doc := submit(t, "/case/reset", nil)
		assert.Equal(t, msgCaseReset, flash(doc))
		assert.Equal(t, before+1, cms.loads.Load())
		assert.True(t, doc.Find("#evidence-audio_cueva").HasClass("locked"))
	})
}

func TestCaseRoom_theoryReview(t *testing.T) {
	ctx := context.Background()
	var completions atomic.Int64
	llm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		completions.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{ //nolint:exhaustruct // test data
			Choices: []openai.ChatCompletionChoice{{ //nolint:exhaustruct // test data
				Message: openai.ChatCompletionMessage{ //nolint:exhaustruct // test data
					Role:    openai.ChatMessageRoleAssistant,
					Content: "Falta situar el audio en la cueva.",
				},
			}},
		})
	}))
	t.Cleanup(llm.Close)
	server := startTestServer(t, withEnv(map[string]string{
		"OPENAI_API_KEY":  "test-key",
		"OPENAI_BASE_URL": llm.URL,
	}))
	client := server.Client()

	_, err := client.Redeem(ctx, accesscode.DemoCode)
	require.NoError(t, err)
	doc, err := client.SubmitForm(ctx, "/case", "/case/theories", url.Values{
		"title":    {"Las mareas"},
		"content":  {"Amelia desapareció con marea viva."},
		"evidence": {"expediente_amelia"},
	})
	require.NoError(t, err)
	id, ok := doc.Find("article.theory").Attr("id")
	require.True(t, ok)
	action := "/case/theories/" + strings.TrimPrefix(id, "theory-") + "/review"
	token, err := client.CSRFToken(doc, action)
	require.NoError(t, err)

	doc, err = client.PostForm(ctx, action, token, nil)
	require.NoError(t, err)
	assert.Equal(t, msgReviewSaved, flash(doc))
	assert.Equal(t, "Falta situar el audio en la cueva.", strings.TrimSpace(doc.Find("#"+id+" p.review").Text()))
	assert.Equal(t, 0, doc.Find("form[action='"+action+"']").Length())

	doc, err = client.PostForm(ctx, action, token, nil)
	require.NoError(t, err)
	assert.Equal(t, msgReviewExists, flash(doc))
	assert.Equal(t, int64(1), completions.Load(), "a stored review is not requested again")
}

func TestCaseRoom_playersAreIsolated(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t, testLookupEnv)

	first := server.Client()
	_, err := first.Redeem(ctx, accesscode.DemoCode)
	require.NoError(t, err)
	_, err = first.SubmitForm(ctx, "/case", "/case/acts/acto-vigilia/unlock", url.Values{"code": {"HIJOS"}})
	require.NoError(t, err)

	second, err := server.NewClient()
	require.NoError(t, err)
	doc, err := second.Redeem(ctx, accesscode.DemoCode)
	require.NoError(t, err)
	assert.True(t, doc.Find("#act-acto-vigilia").HasClass("locked"))

	doc, err = first.GetDoc(ctx, "/case")
	require.NoError(t, err)
	assert.True(t, doc.Find("#act-acto-vigilia").HasClass("unlocked"))
}

func TestCaseRoom_evidenceFilters(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t, testLookupEnv)
	client := server.Client()
	_, err := client.Redeem(ctx, accesscode.DemoCode)
	require.NoError(t, err)
	fallback := fallbackCase(t)

	count := func(keep func(models.Evidence) bool) int {
		n := 0
		for _, ev := range fallback.Evidence {
			if keep(ev) {
				n++
			}
		}
		return n
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "no filter", query: "", want: len(fallback.Evidence)},
		{name: "all sentinels", query: "?type=todas&event=todos&location=todas&character=todos",
			want: len(fallback.Evidence)},
		{name: "by type", query: "?type=recorte",
			want: count(func(ev models.Evidence) bool { return ev.Type == models.EvidenceClipping })},
		{name: "by event", query: "?event=cueva",
			want: count(func(ev models.Evidence) bool { return ev.EventID == "cueva" })},
		{name: "by character", query: "?character=iratxe",
			want: count(func(ev models.Evidence) bool { return slices.Contains(ev.CharacterIDs, "iratxe") })},
		{name: "no match", query: "?type=audio&event=amelia", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := client.GetDoc(ctx, "/case"+tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Find("ul.evidence li[id^='evidence-']").Length())
		})
	}
}

func TestCaseRoom_htmxFragment(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t, testLookupEnv)
	client := server.Client()
	_, err := client.Redeem(ctx, accesscode.DemoCode)
	require.NoError(t, err)

	doc, err := client.GetFragment(ctx, "/case")
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("main#main").Length())
	assert.Equal(t, 0, doc.Find("title").Length())
	assert.Equal(t, 0, doc.Find("header").Length())
}

func TestGameAccessAPI(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t, testLookupEnv)

	issued, err := accesscode.NewCodec("").Issue(accesscode.Payload{ProductSlug: content.FallbackSlug, SessionID: paidSession})
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       any
		wantStatus int
		want       gameAccessResponse
	}{
		{
			name:       "demo",
			body:       gameAccessRequest{Code: accesscode.DemoCode},
			wantStatus: http.StatusOK,
			want:       gameAccessResponse{Valid: true, ProductSlug: "demo", SessionID: "demo-session"},
		},
		{
			name:       "issued",
			body:       gameAccessRequest{Code: issued},
			wantStatus: http.StatusOK,
			want:       gameAccessResponse{Valid: true, ProductSlug: content.FallbackSlug, SessionID: paidSession},
		},
		{name: "missing", body: gameAccessRequest{Code: ""}, wantStatus: http.StatusBadRequest},
		{name: "not json", body: "code", wantStatus: http.StatusBadRequest},
		{name: "invalid", body: gameAccessRequest{Code: "abc.DEF"}, wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := server.Client().PostJSON(ctx, "/api/game-access", tt.body)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got gameAccessResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGameExperienceAPI(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t, testLookupEnv)

	resp, err := server.Client().Get(ctx, "/api/game-experience?slug=demo")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.Content
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, models.SourceFallback, got.Source)
	fallback := fallbackCase(t)
	assert.Equal(t, fallback.Case.Version, got.Case.Version)
	assert.Len(t, got.Acts, len(fallback.Acts))

	missing, err := server.Client().Get(ctx, "/api/game-experience")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusBadRequest, missing.StatusCode)
}

func TestCheckoutSuccess(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t, testLookupEnv)
	client := server.Client()

	doc, err := client.GetDoc(ctx, "/checkout/success?session_id="+paidSession)
	require.NoError(t, err)
	code := strings.TrimSpace(doc.Find("#access-code").Text())
	payload, err := accesscode.NewCodec("").Verify(code)
	require.NoError(t, err)
	assert.Equal(t, accesscode.Payload{ProductSlug: content.FallbackSlug, SessionID: paidSession}, payload)

	doc, err = client.SubmitForm(ctx, "/checkout/success?session_id="+paidSession, "/access", url.Values{"code": {code}})
	require.NoError(t, err)
	assert.Equal(t, "Los Hijos del Acantilado", strings.TrimSpace(doc.Find("#briefing h1").Text()))

	for path, want := range map[string]int{
		"/checkout/success":                   http.StatusBadRequest,
		"/checkout/success?session_id=cs_bad": http.StatusInternalServerError,
	} {
		resp, err := client.Get(ctx, path)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, want, resp.StatusCode, path)
	}
}

func TestCheckoutSuccess_notConfigured(t *testing.T) {
	server := startTestServer(t, withEnv(map[string]string{"CASEROOM_CHECKOUT_SESSIONS": ""}))

	resp, err := server.Client().Get(context.Background(), "/checkout/success?session_id="+paidSession)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), "checkout not configured")
}

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t, testLookupEnv)
	client := server.Client()
	_, err := client.Redeem(ctx, accesscode.DemoCode)
	require.NoError(t, err)
	_, err = client.SubmitForm(ctx, "/case", "/case/acts/acto-vigilia/unlock", url.Values{"code": {"HIJOS"}})
	require.NoError(t, err)

	resp, err := client.Get(ctx, "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `caseroom_access_attempts_total{result="demo"} 1`)
	assert.Contains(t, string(body), `caseroom_progress_actions_total{changed="true",kind="act_unlock"} 1`)
	assert.Contains(t, string(body), `caseroom_content_loads_total{source="fallback"}`)
}
