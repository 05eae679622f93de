package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

const devVersion = "0.0.0-dev"

// Preenchidos por ldflags, ex.:
//
//	go build -ldflags "-X github.com/accrualworks/wd-accruals/pkg/version.Version=1.4.0"
var (
	Version   = devVersion
	Commit    = ""
	BuildTime = ""
)

func init() {
	if bi, ok := debug.ReadBuildInfo(); ok {
		applyBuildInfo(bi)
	}
}

// applyBuildInfo completa Version/Commit/BuildTime com os dados vcs.* gravados pelo
// toolchain. Valores vindos de ldflags têm precedência.
func applyBuildInfo(bi *debug.BuildInfo) {
	if bi == nil || (Version != "" && Version != devVersion) {
		return
	}

	settings := make(map[string]string, len(bi.Settings))
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}

	if Commit == "" && len(settings["vcs.revision"]) >= 7 {
		Commit = settings["vcs.revision"][:7]
	}

	if BuildTime == "" {
		if ts, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
			BuildTime = ts.UTC().Format("2006-01-02T15:04:05Z")
		}
	}

	if tag := settings["vcs.tag"]; tag != "" {
		Version = strings.TrimPrefix(tag, "v")
		if strings.EqualFold(settings["vcs.modified"], "true") {
			Version += "-dirty"
		}
	} else if v := bi.Main.Version; v != "" && v != "(devel)" {
		// go install módulo@versão
		Version = strings.TrimPrefix(v, "v")
	}
}

// FormatVersion retorna a versão com commit e horário do build.
// Ex.: "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)"
func FormatVersion() string {
	ver := Version
	if ver == "" {
		ver = devVersion
	}

	switch {
	case Commit == "" && BuildTime == "":
		return fmt.Sprintf("%s (development)", ver)
	case Commit == "":
		return fmt.Sprintf("%s (built at: %s)", ver, BuildTime)
	case BuildTime == "":
		return fmt.Sprintf("%s (commit: %s)", ver, Commit)
	default:
		return fmt.Sprintf("%s (commit: %s, built at: %s)", ver, Commit, BuildTime)
	}
}
