//go:build !windows

// Package e2e exercises the whole pipeline end to end: HTTP front end over
// the shared core, with the real exec-based backend driven by a stub
// spooler executable on PATH. Nothing is mocked below the HTTP surface.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/app"
	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/backend"
	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/config"
	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/httpapi"
	"github.com/brechtparmentier/tools-batchPDFPrinter/pkg/types"
)

// createTempPDFDir creates a temporary tree populated with small PDF files
// and returns the root path.
func createTempPDFDir(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, n := range names {
		p := filepath.Join(root, n)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", p, err)
		}
		if err := os.WriteFile(p, []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatalf("write temp pdf %s: %v", p, err)
		}
	}
	return root
}

// installStubSpooler puts `lp` and `lpstat` lookalikes on PATH: lp records
// each submitted path to a file so the test can assert what reached the
// spooler and in what order, lpstat answers the default-printer check.
func installStubSpooler(t *testing.T) string {
	t.Helper()
	binDir := t.TempDir()
	recordFile := filepath.Join(binDir, "submitted.txt")
	script := fmt.Sprintf("#!/bin/sh\necho \"$1\" >> %q\nexit 0\n", recordFile)
	if err := os.WriteFile(filepath.Join(binDir, "lp"), []byte(script), 0o755); err != nil {
		t.Fatalf("write stub lp: %v", err)
	}
	installStubLpstat(t, binDir)
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return recordFile
}

func installStubLpstat(t *testing.T, binDir string) {
	t.Helper()
	script := "#!/bin/sh\necho \"system default destination: Office_Laser\"\n"
	if err := os.WriteFile(filepath.Join(binDir, "lpstat"), []byte(script), 0o755); err != nil {
		t.Fatalf("write stub lpstat: %v", err)
	}
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	zero := 0
	cfg := config.Config{
		BatchSize:              10,
		InterBatchDelaySeconds: &zero,
		InterFileDelayMs:       &zero,
		LogFile:                filepath.Join(t.TempDir(), "jobs.log"),
	}
	ci := false
	cfg.CaseInsensitiveSort = &ci
	a := app.New(cfg, zerolog.Nop())
	b, err := backend.New()
	if err != nil {
		t.Fatalf("backend: %v", err)
	}
	a.SetBackend(b)
	srv := httptest.NewServer(httpapi.NewMux(a))
	t.Cleanup(func() {
		srv.Close()
		a.Close()
	})
	return srv
}

func waitTerminal(t *testing.T, srv *httptest.Server) types.RunStatus {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for {
		resp, err := http.Get(srv.URL + "/runs/current")
		if err != nil {
			t.Fatalf("GET /runs/current: %v", err)
		}
		var st types.RunStatus
		if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
			t.Fatalf("decode status: %v", err)
		}
		resp.Body.Close()
		if st.State.Terminal() {
			return st
		}
		if time.Now().After(deadline) {
			t.Fatalf("run never finished: %+v", st)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestE2E_PreviewThenRun(t *testing.T) {
	recordFile := installStubSpooler(t)
	srv := newServer(t)
	root := createTempPDFDir(t,
		"b.pdf",
		"a.pdf",
		filepath.Join("sub", "c.pdf"),
	)

	// Preview first: the plan must be ordered and complete.
	resp, err := http.Get(srv.URL + "/files?dir=" + root + "&batch_size=2")
	if err != nil {
		t.Fatalf("GET /files: %v", err)
	}
	var fr types.FilesResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	resp.Body.Close()
	if fr.Count != 3 || fr.Batches != 2 {
		t.Fatalf("preview: %+v", fr)
	}

	// Start the run and wait for it to finish.
	body := fmt.Sprintf(`{"directory":%q,"batch_size":2}`, root)
	rresp, err := http.Post(srv.URL+"/runs", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST /runs: %v", err)
	}
	rresp.Body.Close()
	if rresp.StatusCode != http.StatusAccepted {
		t.Fatalf("start status: %d", rresp.StatusCode)
	}
	st := waitTerminal(t, srv)
	if st.State != types.StateCompleted || st.Attempted != 3 || st.Succeeded != 3 || st.Failed != 0 {
		t.Fatalf("final status: %+v", st)
	}

	// The stub spooler saw every file, in plan order: root files by name,
	// then the subdirectory.
	b, err := os.ReadFile(recordFile)
	if err != nil {
		t.Fatalf("read spooler record: %v", err)
	}
	lines := bytes.Split(bytes.TrimSpace(b), []byte("\n"))
	if len(lines) != 3 {
		t.Fatalf("spooler received %d files: %q", len(lines), b)
	}
	wantSuffixes := []string{"a.pdf", "b.pdf", "c.pdf"}
	for i, line := range lines {
		if !bytes.HasSuffix(line, []byte(wantSuffixes[i])) {
			t.Fatalf("submission %d = %q, want suffix %q", i, line, wantSuffixes[i])
		}
	}
}

func TestE2E_FailuresReported(t *testing.T) {
	// A spooler that rejects one specific file by name.
	binDir := t.TempDir()
	script := "#!/bin/sh\ncase \"$1\" in *bad.pdf) echo \"rejected\" >&2; exit 1;; esac\nexit 0\n"
	if err := os.WriteFile(filepath.Join(binDir, "lp"), []byte(script), 0o755); err != nil {
		t.Fatalf("write stub lp: %v", err)
	}
	installStubLpstat(t, binDir)
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	srv := newServer(t)
	root := createTempPDFDir(t, "good.pdf", "bad.pdf")

	body := fmt.Sprintf(`{"directory":%q}`, root)
	resp, err := http.Post(srv.URL+"/runs", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST /runs: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("start status: %d", resp.StatusCode)
	}

	st := waitTerminal(t, srv)
	if st.State != types.StateCompleted || st.Attempted != 2 || st.Succeeded != 1 || st.Failed != 1 {
		t.Fatalf("final status: %+v", st)
	}
	if len(st.FailedFiles) != 1 || st.FailedFiles[0].Outcome.Reason != "rejected" {
		t.Fatalf("failed files: %+v", st.FailedFiles)
	}
}
