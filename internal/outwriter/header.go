package outwriter

import (
	"fmt"
	"strings"

	"github.com/huangsam/marketscope/internal/contract"
)

// LogAnalysisHeader prints a concise, 2-line header before an analysis starts.
func LogAnalysisHeader(cfg *contract.Config) {
	s := cfg.Subject

	// Line 1: the target and its type
	fmt.Println(heading("🔎", fmt.Sprintf("Target: %s (Type: %s)", s.TargetName, s.TargetType), cfg.UseEmojis))

	// Line 2: what the searches focus on
	focus := "general demand"
	if len(s.Products) > 0 {
		focus = strings.Join(s.Products, ", ")
	}
	fmt.Println(heading("📦", fmt.Sprintf("Focus: %s (Horizon: %d months, Workers: %d)", focus, s.TimeHorizonMonths, cfg.Workers), cfg.UseEmojis))
}
