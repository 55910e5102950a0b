package cmd

import (
	"strings"
	"testing"
)

func TestListCommandIndd(t *testing.T) {
	env := newTestEnv(t)
	touch(t, env.current,
		currentEdition+"/3_Sport_040516.indd",
		currentEdition+"/1_Front_040516.indd",
		currentEdition+"/Homes/B1_Homes_040516.indd",
		currentEdition+"/Front page final.indd",
		currentEdition+"/notes.txt",
	)

	out, errOut, err := env.execute("list", editionDate)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	want := "1_Front_040516.indd\n3_Sport_040516.indd\nB1_Homes_040516.indd\n"
	if out != want {
		t.Errorf("list output = %q, want %q", out, want)
	}
	if !strings.Contains(errOut, "[WARN] Skipping Front page final.indd") {
		t.Errorf("expected skipped-file warning on stderr, got: %s", errOut)
	}
}

func TestListCommandExternalNames(t *testing.T) {
	env := newTestEnv(t)
	touch(t, env.current,
		currentEdition+"/PDFs 040516/4-5_Spread_040516.pdf",
		currentEdition+"/PDFs 040516/W1_Weekend_040516.pdf",
	)

	out, _, err := env.execute("list", editionDate, "--kind", "press", "--external")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	want := "4-5_Spread_040516.pdf -> MS_2016_05_04_004-005.pdf\n" +
		"W1_Weekend_040516.pdf -> MS_W_2016_05_04_001.pdf\n"
	if out != want {
		t.Errorf("list output = %q, want %q", out, want)
	}
}

func TestListCommandMissingPDFFolder(t *testing.T) {
	env := newTestEnv(t)
	touch(t, env.current, currentEdition+"/1_Front_040516.indd")

	out, _, err := env.execute("list", editionDate, "--kind", "web")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if out != "" {
		t.Errorf("expected empty listing, got %q", out)
	}
}

func TestListCommandDropsMisfiledPages(t *testing.T) {
	env := newTestEnv(t)
	touch(t, env.current,
		currentEdition+"/PDFs 040516/1_Front_040516.pdf",
		currentEdition+"/PDFs 040516/2_News_040516.pdf",
		currentEdition+"/PDFs 040516/2_News_030516.pdf",
	)

	out, errOut, err := env.execute("list", editionDate, "--kind", "press", "--paths")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 pages, got %d: %q", len(lines), out)
	}
	for _, line := range lines {
		if !strings.HasSuffix(line, "_040516.pdf") || !strings.Contains(line, "PDFs 040516") {
			t.Errorf("unexpected line %q", line)
		}
	}
	if !strings.Contains(errOut, "Ignoring 1 misfiled page in 2016-05-04 edition: 2_News_030516.pdf") {
		t.Errorf("expected misfiled warning, got: %s", errOut)
	}
}
