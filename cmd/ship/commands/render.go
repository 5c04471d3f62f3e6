package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.trai.ch/ship/internal/core/domain"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderPlan(w io.Writer, plan *domain.Plan) {
	var b strings.Builder
	b.WriteString(titleStyle.Render("PLAN") + "\n\n")

	if len(plan.Packages) == 0 {
		b.WriteString(mutedStyle.Render("nothing to publish") + "\n")
	}
	for i, p := range plan.Packages {
		fmt.Fprintf(&b, "%2d. %s %s\n", i+1,
			packageStyle.Render(p.Package.String()),
			mutedStyle.Render(fmt.Sprintf("rank %d", p.Rank)))
		for _, t := range p.Targets {
			b.WriteString("      → " + describeTarget(t) + "\n")
		}
	}

	if len(plan.Excluded) > 0 {
		b.WriteString("\n" + mutedStyle.Render("no targets: "+strings.Join(plan.Excluded, ", ")) + "\n")
	}
	renderWarnings(&b, plan.Warnings)
	_, _ = io.WriteString(w, b.String())
}

func renderResult(w io.Writer, res domain.RunResult) {
	var b strings.Builder
	title := "PUBLISH"
	if res.DryRun {
		title += " (dry run)"
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")

	if res.TotalPackages == 0 && res.Success {
		b.WriteString(mutedStyle.Render("nothing to publish") + "\n")
	}
	for _, p := range res.Packages {
		icon, style := "✓", successStyle
		if !p.Succeeded() {
			icon, style = "✗", failureStyle
		}
		b.WriteString(style.Render(icon+" "+p.Name+"@"+p.Version) + "\n")
		for _, t := range p.Targets {
			renderTarget(&b, t)
		}
	}

	if res.BuildError != "" {
		b.WriteString(failureStyle.Render("build: "+res.BuildError) + "\n")
		if res.BuildOutput != "" {
			b.WriteString(detailStyle.Render(res.BuildOutput) + "\n")
		}
	}
	if res.PreValidationError != "" {
		b.WriteString(failureStyle.Render(res.PreValidationError) + "\n")
	}
	renderWarnings(&b, res.Warnings)

	summary := fmt.Sprintf("%d/%d packages, %d/%d targets",
		res.SuccessfulPackages, res.TotalPackages, res.SuccessfulTargets, res.TotalTargets)
	if res.Success {
		b.WriteString("\n" + successStyle.Render("published "+summary) + "\n")
	} else {
		b.WriteString("\n" + failureStyle.Render("failed: "+summary) + "\n")
	}
	_, _ = io.WriteString(w, b.String())
}

func renderTarget(b *strings.Builder, t domain.TargetResult) {
	line := "  " + describeTarget(t.Target)
	switch {
	case t.AlreadyPublished && t.Succeeded():
		b.WriteString(skippedStyle.Render("  ⚡"+line+" already published ("+string(t.AlreadyPublishedReason)+")") + "\n")
	case t.Succeeded():
		b.WriteString(successStyle.Render("  ✓"+line) + "\n")
		for _, url := range []string{t.RegistryURL, t.AttestationURL} {
			if url != "" {
				b.WriteString(detailStyle.Render(url) + "\n")
			}
		}
	default:
		b.WriteString(failureStyle.Render("  ✗"+line) + "\n")
		if t.Error != "" {
			b.WriteString(detailStyle.Render(t.Error) + "\n")
		}
	}
}

func renderWarnings(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString("\n")
	for _, w := range warnings {
		b.WriteString(warningStyle.Render("! "+w) + "\n")
	}
}

func describeTarget(t domain.Target) string {
	parts := []string{t.String()}
	if t.Access != "" {
		parts = append(parts, "access="+string(t.Access))
	}
	if t.Tag != "" {
		parts = append(parts, "tag="+t.Tag)
	}
	if t.Provenance {
		parts = append(parts, "provenance")
	}
	return strings.Join(parts, " ")
}
