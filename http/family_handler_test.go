package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	httpapi "github.com/yourorg/taxa-api/http"
	"github.com/yourorg/taxa-api/inat"
	"github.com/yourorg/taxa-api/internal/taxa"
)

const upstreamTaxa = `{"results":[
	{"id": 47336, "name": "Formicidae", "rank": "family", "preferred_common_name": "Ants", "ancestry": "48460/1/47201"}
]}`

const upstreamObservations = `{"total_results": 97, "results": [
	{"id": 1, "cached_votes_total": 9, "observed_on": "2023-04-01", "place_guess": "Austin, TX",
	 "user": {"login": "antfan"}, "taxon": {"name": "Formica rufa", "preferred_common_name": "Red Wood Ant"},
	 "photos": [{"url": "https://static.example/photos/1/square.jpeg", "attribution": "(c) antfan"}]},
	{"id": 2, "cached_votes_total": 7,
	 "taxon": {"name": "Lasius niger"},
	 "photos": [{"url": "https://static.example/photos/2/square.jpeg", "attribution": "(c) someone"}]},
	{"id": 3, "cached_votes_total": 5,
	 "taxon": {"name": "Myrmica rubra"},
	 "photos": [{"url": "https://static.example/photos/3/square.jpeg", "attribution": "(c) someone"}]},
	{"id": 4, "cached_votes_total": 3,
	 "taxon": {"name": "Camponotus ligniperda"},
	 "photos": [{"url": "https://static.example/photos/4/square.jpeg", "attribution": "(c) someone"}]}
]}`

// newUpstream fakes the iNaturalist API for handler tests.
func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/taxa", func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimSpace(r.URL.Query().Get("q")) {
		case "Formicidae":
			w.Write([]byte(upstreamTaxa))
		case "boom":
			http.Error(w, "internal", http.StatusInternalServerError)
		default:
			w.Write([]byte(`{"results":[]}`))
		}
	})
	mux.HandleFunc("/observations", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(upstreamObservations))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T, upstreamURL string) http.Handler {
	t.Helper()
	client := inat.NewClient(inat.ClientConfig{
		BaseURL:           upstreamURL,
		Timeout:           2 * time.Second,
		RetryMax:          0,
		RequestsPerSecond: 1000,
		Burst:             1000,
	})
	svc := &taxa.Service{
		Resolver:   taxa.NewResolver(client, nil, nil, "Insecta", nil),
		Aggregator: taxa.NewAggregator(client, 1, nil),
	}
	r := chi.NewRouter()
	httpapi.RegisterFamily(r, httpapi.FamilyDeps{Svc: svc})
	httpapi.RegisterValidate(r, httpapi.ValidateDeps{
		Resolver: taxa.NewResolver(client, nil, []string{"family", "superfamily", "order"}, "Insecta", nil),
	})
	httpapi.RegisterQuiz(r, httpapi.QuizDeps{Svc: svc, PickIndex: func(int) int { return 0 }})
	return r
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reqBody *strings.Reader
	if body == "" {
		reqBody = strings.NewReader("")
	} else {
		reqBody = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reqBody)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("response is not JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return rec, decoded
}

func TestFamilyEndpoint(t *testing.T) {
	router := newTestRouter(t, newUpstream(t).URL)

	rec, body := doJSON(t, router, http.MethodGet, "/api/family/Formicidae/count/3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body["family_name"] != "Formicidae" {
		t.Errorf("family_name = %v", body["family_name"])
	}
	if body["family_id"] != float64(47336) {
		t.Errorf("family_id = %v", body["family_id"])
	}
	if body["total_found"] != float64(97) {
		t.Errorf("total_found = %v", body["total_found"])
	}
	obs, ok := body["observations"].([]any)
	if !ok {
		t.Fatalf("observations missing: %v", body)
	}
	if len(obs) > 3 {
		t.Errorf("got %d observations, want <= 3", len(obs))
	}
	for _, raw := range obs {
		o := raw.(map[string]any)
		photos, ok := o["photos"].([]any)
		if !ok || len(photos) == 0 {
			t.Errorf("observation %v has no photos", o["id"])
		}
	}

	// Highest-voted observation first; rewritten photo size variant.
	first := obs[0].(map[string]any)
	if first["id"] != float64(1) {
		t.Errorf("first observation id = %v, want 1", first["id"])
	}
	photo := first["photos"].([]any)[0].(map[string]any)
	if photo["url"] != "https://static.example/photos/1/large.jpeg" {
		t.Errorf("photo url = %v", photo["url"])
	}
	if first["location"] != "Austin, TX" || first["user"] != "antfan" {
		t.Errorf("unexpected first observation: %v", first)
	}
	// Absent optional fields are explicit nulls.
	second := obs[1].(map[string]any)
	if v, present := second["observed_on"]; !present || v != nil {
		t.Errorf("observed_on = %v (present=%v), want null", v, present)
	}
}

func TestFamilyEndpointDefaultCount(t *testing.T) {
	router := newTestRouter(t, newUpstream(t).URL)
	rec, body := doJSON(t, router, http.MethodGet, "/api/family/Formicidae", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if obs := body["observations"].([]any); len(obs) > 5 {
		t.Errorf("got %d observations, want <= 5", len(obs))
	}
}

func TestFamilyEndpointClampsCount(t *testing.T) {
	router := newTestRouter(t, newUpstream(t).URL)
	rec, body := doJSON(t, router, http.MethodGet, "/api/family/Formicidae/count/1000", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want clamped success", rec.Code)
	}
	if obs := body["observations"].([]any); len(obs) > 20 {
		t.Errorf("got %d observations, want <= 20", len(obs))
	}
}

func TestFamilyEndpointNonNumericCount(t *testing.T) {
	router := newTestRouter(t, newUpstream(t).URL)
	rec, body := doJSON(t, router, http.MethodGet, "/api/family/Formicidae/count/lots", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["error"] == nil {
		t.Error("want error message in body")
	}
}

func TestFamilyEndpointNotFound(t *testing.T) {
	router := newTestRouter(t, newUpstream(t).URL)
	rec, body := doJSON(t, router, http.MethodGet, "/api/family/Zzzznotfamilyxx", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body["error"] != "Family not found" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestFamilyEndpointBlankName(t *testing.T) {
	router := newTestRouter(t, newUpstream(t).URL)
	rec, _ := doJSON(t, router, http.MethodGet, "/api/family/%20%20", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestFamilyEndpointUpstreamFailure(t *testing.T) {
	router := newTestRouter(t, newUpstream(t).URL)
	rec, body := doJSON(t, router, http.MethodGet, "/api/family/boom", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if msg, _ := body["error"].(string); msg == "" || strings.Contains(msg, "internal") {
		t.Errorf("error = %q, must be our own message, never the upstream body", msg)
	}
}
