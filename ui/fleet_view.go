package ui

import (
	"fmt"
	"strings"
)

// FleetRow is one repository line in the fleet table.
type FleetRow struct {
	Name        string
	BranchLabel string
	DirtyLabel  string
	StashLabel  string
	SyncLabel   string
	HooksLabel  string
	Failed      bool
}

// BuildFleetRow flattens audit results into display labels.
func BuildFleetRow(name string, branch string, dirty bool, stashCount int, ahead int, behind int, hookDiffs int, failed bool) FleetRow {
	row := FleetRow{
		Name:        name,
		BranchLabel: branch,
		DirtyLabel:  formatFlagLabel(dirty),
		StashLabel:  formatCountLabel(stashCount),
		SyncLabel:   formatSyncLabel(ahead, behind),
		HooksLabel:  formatCountLabel(hookDiffs),
		Failed:      failed,
	}
	if failed {
		row.DirtyLabel = "-"
		row.StashLabel = "-"
		row.SyncLabel = "error"
		row.HooksLabel = "-"
	}
	return row
}

// RenderFleetTable renders the repository table with a cursor marker.
func RenderFleetTable(rows []FleetRow, cursor int, styles Styles) string {
	const (
		nameWidth   = 32
		branchWidth = 20
		dirtyWidth  = 6
		stashWidth  = 6
		syncWidth   = 12
		hooksWidth  = 6
	)
	var b strings.Builder
	header := formatFleetLine("Repository", "Branch", "Dirty", "Stash", "Sync", "Hooks", nameWidth, branchWidth, dirtyWidth, stashWidth, syncWidth, hooksWidth)
	b.WriteString(styles.Header("  " + header))
	b.WriteString("\n")
	for i, row := range rows {
		rowStyle := styles.Normal
		if row.Failed {
			rowStyle = styles.Failed
		}
		if i == cursor {
			rowStyle = styles.Selected
		}
		line := formatFleetLine(row.Name, row.BranchLabel, row.DirtyLabel, row.StashLabel, row.SyncLabel, row.HooksLabel, nameWidth, branchWidth, dirtyWidth, stashWidth, syncWidth, hooksWidth)
		marker := "  "
		if i == cursor {
			marker = "> "
		}
		b.WriteString(marker + rowStyle(line))
		b.WriteString("\n")
	}
	return b.String()
}

func formatFleetLine(name string, branch string, dirty string, stash string, sync string, hooks string, nameWidth int, branchWidth int, dirtyWidth int, stashWidth int, syncWidth int, hooksWidth int) string {
	return PadOrTrim(name, nameWidth) + " " +
		PadOrTrim(branch, branchWidth) + " " +
		PadOrTrim(dirty, dirtyWidth) + " " +
		PadOrTrim(stash, stashWidth) + " " +
		PadOrTrim(sync, syncWidth) + " " +
		PadOrTrim(hooks, hooksWidth)
}

func formatFlagLabel(set bool) string {
	if set {
		return "yes"
	}
	return "-"
}

func formatCountLabel(n int) string {
	if n <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d", n)
}

func formatSyncLabel(ahead int, behind int) string {
	switch {
	case ahead > 0 && behind > 0:
		return fmt.Sprintf("+%d/-%d", ahead, behind)
	case ahead > 0:
		return fmt.Sprintf("+%d", ahead)
	case behind > 0:
		return fmt.Sprintf("-%d", behind)
	default:
		return "ok"
	}
}
