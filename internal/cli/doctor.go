package cli

import (
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/frankfika/AIHomee/internal/domain/settings"
)

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := deps.App.Out
			ok := true

			if _, err := exec.LookPath("ffmpeg"); err != nil {
				f.SetupCheck("ffmpeg", false, "not found. Install with: brew install ffmpeg")
				ok = false
			} else {
				f.SetupCheck("ffmpeg", true, "installed")
			}

			mistralKey := deps.App.Settings.MistralCredential()
			if mistralKey == "" {
				mistralKey = deps.Config.MistralKey
			}
			if mistralKey != "" {
				f.SetupCheck("Mistral API key", true, "configured")
			} else {
				f.SetupCheck("Mistral API key", false, "not set. Run 'aihomee config set-key mistral <key>' or set AIHOMEE_MISTRAL_API_KEY")
				ok = false
			}

			anthropicKey := deps.App.Settings.Credential(settings.ProviderAnthropic)
			if anthropicKey == "" {
				anthropicKey = deps.Config.AnthropicKey
			}
			if anthropicKey != "" {
				f.SetupCheck("Anthropic API key", true, "configured")
			} else {
				f.SetupCheck("Anthropic API key", false, "not set. Run 'aihomee config set-key anthropic <key>' or set AIHOMEE_ANTHROPIC_API_KEY")
				ok = false
			}

			if agent, active := deps.App.Settings.ActiveAgent(); active {
				f.SetupCheck("Active agent", true, agent.Name)
			} else {
				f.SetupCheck("Active agent", false, "none configured")
				ok = false
			}

			f.SetupCheck("Data directory", true, deps.Config.DataDir)
			f.SetupCheck("Meetings stored", true, fmt.Sprintf("%d", deps.App.Meetings.Len()))

			if ok {
				f.Success("\nAll prerequisites met. Ready to record!")
			} else {
				f.Warning("\nSome prerequisites are missing.")
			}
			return nil
		},
	}
}
