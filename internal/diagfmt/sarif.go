package diagfmt

import (
	"encoding/json"
	"io"

	"underware/internal/diag"
	"underware/internal/source"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
	Fixes     []sarifFix      `json:"fixes,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

type sarifFix struct {
	Description     sarifMessage          `json:"description"`
	ArtifactChanges []sarifArtifactChange `json:"artifactChanges"`
}

type sarifArtifactChange struct {
	ArtifactLocation sarifArtifact      `json:"artifactLocation"`
	Replacements     []sarifReplacement `json:"replacements"`
}

type sarifReplacement struct {
	DeletedRegion   sarifRegion      `json:"deletedRegion"`
	InsertedContent sarifArtifactRaw `json:"insertedContent"`
}

type sarifArtifactRaw struct {
	Text string `json:"text"`
}

// Sarif writes bag as a SARIF v2.1.0 log with a single run.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           meta.ToolName,
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
		}},
		Results: make([]sarifResult, 0, bag.Len()),
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: !bag.HasErrors()}}
	}

	seen := make(map[string]bool)
	for _, d := range bag.Items() {
		ruleID := d.Code.ID()
		if !seen[ruleID] {
			seen[ruleID] = true
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{
				ID:               ruleID,
				Name:             d.MessageID().ID,
				ShortDescription: sarifMessage{Text: d.Code.Title()},
			})
		}
		res := sarifResult{
			RuleID:    ruleID,
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{PhysicalLocation: sarifPhysicalFor(fs, d.Primary)}},
		}
		for _, f := range d.Fixes {
			res.Fixes = append(res.Fixes, sarifFixFor(fs, f))
		}
		run.Results = append(run.Results, res)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(sarifLog{Version: sarifVersion, Schema: sarifSchema, Runs: []sarifRun{run}})
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

func sarifPhysicalFor(fs *source.FileSet, sp source.Span) sarifPhysical {
	phys := sarifPhysical{Region: sarifRegion{ByteOffset: sp.Start, ByteLength: sp.Len()}}
	f := fs.Get(sp.File)
	if f == nil {
		return phys
	}
	phys.ArtifactLocation.URI = PathModeRelative.format(f, fs)
	start, end := fs.Resolve(sp)
	phys.Region.StartLine, phys.Region.StartColumn = start.Line, start.Col
	phys.Region.EndLine, phys.Region.EndColumn = end.Line, end.Col
	return phys
}

func sarifFixFor(fs *source.FileSet, f diag.Fix) sarifFix {
	byFile := make(map[source.FileID]int)
	fix := sarifFix{Description: sarifMessage{Text: f.Title}}
	for _, e := range f.Edits {
		phys := sarifPhysicalFor(fs, e.Span)
		idx, ok := byFile[e.Span.File]
		if !ok {
			idx = len(fix.ArtifactChanges)
			byFile[e.Span.File] = idx
			fix.ArtifactChanges = append(fix.ArtifactChanges, sarifArtifactChange{ArtifactLocation: phys.ArtifactLocation})
		}
		change := &fix.ArtifactChanges[idx]
		change.Replacements = append(change.Replacements, sarifReplacement{
			DeletedRegion:   phys.Region,
			InsertedContent: sarifArtifactRaw{Text: e.NewText},
		})
	}
	return fix
}
