package search

import (
	"fmt"
	"io"
	"text/template"

	"github.com/openoceanspp/oopp/internal/projectconfig"
)

// Script holds everything needed to print a sweep.
type Script struct {
	Build          string
	PredictionsDir string
	ResultsLog     string
	Reports        []string
	Grid           Grid
}

// ScriptFromConfig builds a Script from the search section of a project
// config. An empty build falls back to the configured one.
func ScriptFromConfig(cfg projectconfig.SearchConfig, build string) Script {
	if build == "" {
		build = cfg.Build
	}
	return Script{
		Build:          build,
		PredictionsDir: cfg.PredictionsDir,
		ResultsLog:     cfg.ResultsLog,
		Reports:        cfg.Reports,
		Grid:           GridFromConfig(cfg.Grid),
	}
}

const blockTemplate = `{{- range .Commands -}}
rm {{ $.PredictionsDir }}/*
{{ . }}
make score
echo "command = {{ . }}" >> {{ $.ResultsLog }}
{{ range $.Reports -}}
cat {{ . }} >> {{ $.ResultsLog }}
{{ end -}}
{{- end -}}
`

var scriptTmpl = template.Must(template.New("search").Option("missingkey=error").Parse(blockTemplate))

type scriptData struct {
	PredictionsDir string
	ResultsLog     string
	Reports        []string
	Commands       []string
}

// Write renders one block of shell lines per grid point to w.
func (s Script) Write(w io.Writer) error {
	cmds, err := Commands(s.Build, s.Grid)
	if err != nil {
		return err
	}
	data := scriptData{
		PredictionsDir: trimSlash(s.PredictionsDir),
		ResultsLog:     s.ResultsLog,
		Reports:        s.Reports,
		Commands:       cmds,
	}
	if err := scriptTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("search: render: %w", err)
	}
	return nil
}

func trimSlash(dir string) string {
	for len(dir) > 1 && dir[len(dir)-1] == '/' {
		dir = dir[:len(dir)-1]
	}
	return dir
}
