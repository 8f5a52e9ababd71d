package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/soaringjerry/SurveyFlow/internal/log"
	"github.com/soaringjerry/SurveyFlow/internal/services"
)

// emit writes v in the selected structured format. It reports false for text output so the
// caller can print its own rendering.
func emit(w io.Writer, v any) (bool, error) {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return true, enc.Encode(v)
	case "text", "":
		return false, nil
	}
	return true, fmt.Errorf("unknown output format %q", output)
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func stepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "List the wizard steps in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			type row struct {
				Step     services.Step     `json:"step" yaml:"step"`
				Progress services.Progress `json:"progress" yaml:"progress"`
			}
			rows := make([]row, 0, len(services.Steps))
			for _, s := range services.Steps {
				rows = append(rows, row{Step: s, Progress: services.ProgressOf(s)})
			}
			w := cmd.OutOrStdout()
			if done, err := emit(w, rows); done {
				return err
			}
			for i, r := range rows {
				label := "-"
				if r.Progress.Visible {
					label = r.Progress.Label
				}
				fmt.Fprintf(w, "%d  %-24s %s\n", i, r.Step, label)
			}
			return nil
		},
	}
}

func priceCmd() *cobra.Command {
	var (
		geo       string
		seniority string
		size      string
		minutes   int
		responses int
	)
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Quote the per-response price for one targeting row",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := services.Quote(geo, services.Seniority(seniority), services.CompanySize(size), minutes)
			if err != nil {
				return err
			}
			if responses < 1 {
				return fmt.Errorf("responses must be at least 1")
			}
			subtotal := b.Amount * float64(responses)
			w := cmd.OutOrStdout()
			if done, err := emit(w, map[string]any{"quote": b, "responses": responses, "subtotal": subtotal}); done {
				return err
			}
			fmt.Fprintf(w, "%s / %s / %s, %d min\n", b.Geography, b.Seniority, b.CompanySize, b.InterviewMinutes)
			fmt.Fprintf(w, "  base %.2f x geo %.2f x premium %.2f x seniority %.2f x size %.2f x %d\n",
				b.BaseUnit, b.GeographyMultiplier, b.ProfessionalPremium, b.SeniorityMultiplier, b.CompanySizeMultiplier, b.InterviewMinutes)
			fmt.Fprintf(w, "  per response: $%.2f\n", b.Amount)
			fmt.Fprintf(w, "  %d responses:  $%.2f (+%.0f%% service charge: $%.2f)\n",
				responses, subtotal, services.ServiceChargeRate*100, subtotal*(1+services.ServiceChargeRate))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&geo, "geo", services.BaseMarket, "geography id")
	f.StringVar(&seniority, "seniority", string(services.SeniorityEntry), "seniority level")
	f.StringVar(&size, "size", string(services.CompanySME), "company size")
	f.IntVar(&minutes, "minutes", services.DefaultInterviewMinutes, "interview length in minutes")
	f.IntVar(&responses, "responses", services.DefaultExpectedResponses, "expected responses")
	return cmd
}

func linksCmd() *cobra.Command {
	var (
		pattern string
		geos    string
		cats    string
		host    string
		copyOut bool
	)
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Generate live links for a selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := services.LinkPattern(pattern)
			if !p.Valid() {
				return fmt.Errorf("unknown link pattern %q", pattern)
			}
			g, err := services.ResolveGeographies(splitList(geos))
			if err != nil {
				return err
			}
			c, err := services.ResolveCategories(splitList(cats))
			if err != nil {
				return err
			}
			// every selected pair gets a link when pricing rows are not available
			configs := []services.PaymentConfig{}
			for _, gg := range g {
				for _, cc := range c {
					configs = append(configs, services.PaymentConfig{Geography: gg.ID, Category: cc.ID})
				}
			}
			links := services.GenerateLiveLinks(host, p, g, c, configs)
			log.Debugf("generated %d %s links", len(links), p)
			text := services.CopyAllText(links)
			if copyOut {
				if err := clipboardWriteAll(text); err != nil {
					log.Warnf("copy to clipboard: %v", err)
				} else {
					log.Infof("copied %d links to the clipboard", len(links))
				}
			}
			w := cmd.OutOrStdout()
			if done, err := emit(w, links); done {
				return err
			}
			fmt.Fprintln(w, text)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&pattern, "pattern", string(services.LinkPatternSingle), "single, geo-based, category-based or geo-category-based")
	f.StringVar(&geos, "geo", "", "comma-separated geography ids")
	f.StringVar(&cats, "cat", "", "comma-separated category ids")
	f.StringVar(&host, "host", services.DefaultLinkHost, "live link host")
	f.BoolVar(&copyOut, "copy", false, "also copy the links to the clipboard")
	return cmd
}

func inferCmd() *cobra.Command {
	var geoCount, catCount int
	cmd := &cobra.Command{
		Use:   "infer",
		Short: "Show the requirement detected for a number of geographies and categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := services.InferRequirement(geoCount, catCount)
			w := cmd.OutOrStdout()
			if done, err := emit(w, r); done {
				return err
			}
			fmt.Fprintf(w, "%s (id %d)\n  %s\n  links: %s, screeners: %s\n", r.Name, r.ID, r.Description, r.LiveLinkPattern, r.ScreenerPattern)
			return nil
		},
	}
	cmd.Flags().IntVar(&geoCount, "geos", 1, "number of geographies")
	cmd.Flags().IntVar(&catCount, "cats", 1, "number of categories")
	return cmd
}

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "catalog [geographies|categories|requirements|participants]",
		Short:     "Print reference data",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"geographies", "categories", "requirements", "participants"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "geographies":
				items := services.Geographies()
				if done, err := emit(w, items); done {
					return err
				}
				for _, g := range items {
					fmt.Fprintf(w, "%-4s %-3s %s\n", g.ID, g.Code, g.Name)
				}
			case "categories":
				items := services.Categories()
				if done, err := emit(w, items); done {
					return err
				}
				for _, c := range items {
					fmt.Fprintf(w, "%-18s %s (%s)\n", c.ID, c.Name, c.Department)
				}
			case "requirements":
				items := services.Requirements()
				if done, err := emit(w, items); done {
					return err
				}
				for _, r := range items {
					fmt.Fprintf(w, "%d  %-24s %-20s %s\n", r.ID, r.Name, r.LiveLinkPattern, r.ScreenerPattern)
				}
			case "participants":
				items := services.Participants()
				if done, err := emit(w, items); done {
					return err
				}
				for _, p := range items {
					fmt.Fprintf(w, "%-3s %-14s %-3s %s\n", p.ID, p.Name, p.Geography, p.Category)
				}
			default:
				return fmt.Errorf("unknown catalog %q", args[0])
			}
			return nil
		},
	}
}
