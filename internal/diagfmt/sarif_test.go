package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"tsbind/internal/diag"
	"tsbind/internal/source"
)

func TestSarif(t *testing.T) {
	fs := source.NewFileSetWithBase("/work")
	fileID := fs.AddVirtual("/work/src/test.ts", []byte("let x = 1;\nlet x = 2;\n"))
	bag := diag.NewBag(10)
	bag.Add(redeclared(fileID))
	bag.Add(redeclared(fileID))

	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "tsbind", ToolVersion: "1.0.0", InvocationArgs: []string{"bind"}, RunID: "2f1c8a52-7d4e-4b8e-9a51-0c6f3d2e1b7a"}); err != nil {
		t.Fatalf("Sarif: %v", err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("log header = %s, %d runs", log.Version, len(log.Runs))
	}
	run := log.Runs[0]
	if run.AutomationDetails == nil || run.AutomationDetails.GUID != "2f1c8a52-7d4e-4b8e-9a51-0c6f3d2e1b7a" {
		t.Fatalf("automation details = %+v", run.AutomationDetails)
	}
	if len(run.Tool.Driver.Rules) != 1 || run.Tool.Driver.Rules[0].ID != "TS2451" {
		t.Fatalf("rules = %+v", run.Tool.Driver.Rules)
	}
	if len(run.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(run.Results))
	}
	res := run.Results[0]
	loc := res.Locations[0].PhysicalLocation
	if res.Level != "error" || loc.ArtifactLocation.URI != "src/test.ts" || loc.Region.StartLine != 2 || loc.Region.StartColumn != 5 {
		t.Fatalf("result = %+v", res)
	}
	if len(res.RelatedLocations) != 1 || res.RelatedLocations[0].Message == nil || res.RelatedLocations[0].Message.Text != "'x' was also declared here." {
		t.Fatalf("related locations = %+v", res.RelatedLocations)
	}
}
