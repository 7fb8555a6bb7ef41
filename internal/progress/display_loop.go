package progress

import (
	"fmt"
	"strings"
	"time"
)

func (pdm *ProgressDisplayManager) displayLoop() {
	defer close(pdm.loopDone)

	for {
		select {
		case <-pdm.ctx.Done():
			return
		case <-pdm.stopChan:
			return
		case <-pdm.displayTicker.C:
			pdm.displayProgress()
		}
	}
}

// displayProgress logs the snapshot unless it matches the last line logged.
func (pdm *ProgressDisplayManager) displayProgress() {
	output := pdm.formatProgress(pdm.progress.Info())
	if output == "" {
		return
	}

	pdm.displayMu.Lock()
	defer pdm.displayMu.Unlock()

	if output == pdm.lastDisplayed {
		return
	}
	pdm.lastDisplayed = output
	pdm.logger.Info().Msg(output)
}

func (pdm *ProgressDisplayManager) formatProgress(info ProgressInfo) string {
	if info.Status == ProgressStatusIdle {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Refine: %s %d processed | kept %d (%.1f%%) | invalid %d | duplicate %d",
		pdm.getStatusIcon(info.Status), info.Processed, info.Kept, info.GetKeptPercentage(), info.Invalid, info.Duplicate))

	if rate := info.Rate(); rate > 0 {
		builder.WriteString(fmt.Sprintf(" | %.0f/s", rate))
	}

	if elapsed := info.Elapsed(); elapsed > 0 {
		builder.WriteString(fmt.Sprintf(" | %s", formatDuration(elapsed)))
	}

	if info.Stage != "" && info.Status == ProgressStatusRunning {
		builder.WriteString(fmt.Sprintf(" | %s", info.Stage))
	}

	if pdm.config.ShowMemoryUsage && pdm.memoryReader != nil {
		if usage, ok := pdm.memoryReader(); ok {
			builder.WriteString(fmt.Sprintf(" | RSS %dMB (sys %.0f%%)", usage.ProcessRSSMB, usage.SystemMemUsedPercent))
		}
	}

	if info.Message != "" {
		builder.WriteString(fmt.Sprintf(" | %s", info.Message))
	}

	return builder.String()
}

func (pdm *ProgressDisplayManager) getStatusIcon(status ProgressStatus) string {
	switch status {
	case ProgressStatusRunning:
		return "⏳"
	case ProgressStatusComplete:
		return "✅"
	case ProgressStatusError:
		return "❌"
	case ProgressStatusCancelled:
		return "🚫"
	case ProgressStatusIdle:
		return "💤"
	default:
		return "❓"
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	} else if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
