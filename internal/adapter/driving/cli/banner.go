package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/accrualworks/wd-accruals/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
 __        ______        _                                _
 \ \      / /  _ \      / \   ___ ___ _ __ _   _  __ _  | |___
  \ \ /\ / /| | | |    / _ \ / __/ __| '__| | | |/ _' | | / __|
   \ V  V / | |_| |   / ___ \ (_| (__| |  | |_| | (_| | | \__ \
    \_/\_/  |____/   /_/   \_\___\___|_|   \__,_|\__,_| |_|___/
`
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(green(banner))

	formatted := version.FormatVersion()
	if versionStr != "" && versionStr != version.Version {
		formatted = versionStr
	}
	fmt.Println(blue(fmt.Sprintf("Workday Accruals Reconciliation (v%s)", formatted)))
}
