package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pyrite/pkg/report"
)

const validManifest = `
[tool.poetry]
name = "prune-lab"
version = "0.4.2"
authors = ["Ada Example <ada@example.com>"]

[tool.poetry.dependencies]
python = "^3.11"
torchmetrics = "^1.3.1"

[build-system]
requires = ["poetry-core>=1.8"]
build-backend = "poetry.core.masonry.api"
`

const brokenConstraintManifest = `
[tool.poetry]
name = "prune-lab"
version = "0.4.2"
authors = ["Ada Example <ada@example.com>"]

[tool.poetry.dependencies]
python = "^3.11"
torchmetrics = "^1.3.1, not-a-version"

[build-system]
requires = ["poetry-core>=1.8"]
build-backend = "poetry.core.masonry.api"
`

func testServer(t *testing.T, store report.Store) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	srv := httptest.NewServer(NewServer(logger, store).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func decodeReport(t *testing.T, body io.Reader) *report.Report {
	t.Helper()
	var rep report.Report
	if err := json.NewDecoder(body).Decode(&rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	return &rep
}

func TestHealthz(t *testing.T) {
	srv := testServer(t, nil)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["status"] != "ok" {
		t.Errorf("status field = %q", out["status"])
	}
}

func TestValidateCleanManifest(t *testing.T) {
	srv := testServer(t, nil)

	resp, err := http.Post(srv.URL+"/v1/validate", "application/toml", strings.NewReader(validManifest))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	rep := decodeReport(t, resp.Body)
	if rep.Project != "prune-lab" {
		t.Errorf("project = %q", rep.Project)
	}
	if rep.Findings.HasErrors() {
		t.Errorf("clean manifest produced errors: %v", rep.Findings.Errors())
	}
}

func TestValidateBrokenConstraint(t *testing.T) {
	srv := testServer(t, nil)

	resp, err := http.Post(srv.URL+"/v1/validate", "application/toml", strings.NewReader(brokenConstraintManifest))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	// Validation findings are a report, not an HTTP failure.
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	rep := decodeReport(t, resp.Body)
	if !rep.Findings.HasErrors() {
		t.Error("invalid constraint not reported")
	}
}

func TestValidateMalformedTOML(t *testing.T) {
	srv := testServer(t, nil)

	resp, err := http.Post(srv.URL+"/v1/validate", "application/toml", strings.NewReader("[tool.poetry\nname ="))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestReportPersistenceAndLookup(t *testing.T) {
	store, err := report.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := testServer(t, store)

	resp, err := http.Post(srv.URL+"/v1/validate", "application/toml", strings.NewReader(validManifest))
	if err != nil {
		t.Fatal(err)
	}
	rep := decodeReport(t, resp.Body)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/v1/reports/" + rep.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("report lookup status = %d", resp.StatusCode)
	}
	stored := decodeReport(t, resp.Body)
	if stored.ID != rep.ID {
		t.Errorf("stored ID = %q, want %q", stored.ID, rep.ID)
	}

	listResp, err := http.Get(srv.URL + "/v1/reports")
	if err != nil {
		t.Fatal(err)
	}
	defer listResp.Body.Close()
	var list []*report.Report
	if err := json.NewDecoder(listResp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("list returned %d reports, want 1", len(list))
	}
}

func TestReportLookupMisses(t *testing.T) {
	store, err := report.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := testServer(t, store)

	resp, err := http.Get(srv.URL + "/v1/reports/no-such-id")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestReportsDisabledWithoutStore(t *testing.T) {
	srv := testServer(t, nil)

	resp, err := http.Get(srv.URL + "/v1/reports")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
