package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/rule"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	RuleSet      string // Filter by rule set
	Experimental bool   // Include experimental rules
	Format       string // Output format
}

// RuleInfo describes a rule for listings.
type RuleInfo struct {
	ID                string         `json:"id"`
	RuleSet           string         `json:"rule_set"`
	Description       string         `json:"description"`
	DocURL            string         `json:"doc_url,omitempty"`
	Experimental      bool           `json:"experimental"`
	OfficialStyleOnly bool           `json:"official_style_only"`
	Priority          string         `json:"priority"`
	RunAfter          []string       `json:"run_after,omitempty"`
	Properties        []PropertyInfo `json:"properties,omitempty"`
}

// PropertyInfo describes an editorconfig property read by a rule.
type PropertyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []RuleInfo `json:"rules"`
	Count int        `json:"count"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available style rules",
		Long: `List the style rules leaplint ships with.

Rules are grouped by rule set. Unqualified ids refer to the standard set.
Experimental rules are hidden unless --experimental is given; they only run
when leaplint_experimental = enabled is set in .editorconfig.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all rules
  leaplint rules

  # Show details for a specific rule
  leaplint rules keyword-case

  # Output as JSON
  leaplint rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.RuleSet, "rule-set", "", "Filter by rule set")
	cmd.Flags().BoolVar(&opts.Experimental, "experimental", false, "Include experimental rules")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func rulesRenderer(cmd *cobra.Command, opts *RulesOptions) (*output.Renderer, error) {
	if opts.Format != "" {
		return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format)), nil
	}
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return nil, err
	}
	return cmdCtx.Renderer, nil
}

func loadRules() (*rule.Registry, error) {
	reg := rule.NewRegistry()
	if err := reg.Register(RuleSets()...); err != nil {
		return nil, err
	}
	return reg, nil
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	r, err := rulesRenderer(cmd, opts)
	if err != nil {
		return err
	}
	reg, err := loadRules()
	if err != nil {
		return err
	}

	var rules []RuleInfo
	for _, e := range reg.Entries() {
		if opts.RuleSet != "" && e.Meta.ID.RuleSet() != opts.RuleSet {
			continue
		}
		if e.Meta.Experimental && !opts.Experimental {
			continue
		}
		rules = append(rules, newRuleInfo(e.Meta))
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(RulesJSONOutput{Rules: rules, Count: len(rules)})
	case output.ModeMarkdown:
		listRulesMarkdown(r, rules)
	default:
		listRulesText(r, rules)
	}
	return nil
}

func showRule(cmd *cobra.Command, id string, opts *RulesOptions) error {
	r, err := rulesRenderer(cmd, opts)
	if err != nil {
		return err
	}
	reg, err := loadRules()
	if err != nil {
		return err
	}
	entry, ok := reg.Lookup(rule.Qualify(id, rule.DefaultRuleSet))
	if !ok {
		return fmt.Errorf("rule %q not found", id)
	}
	info := newRuleInfo(entry.Meta)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(info)
	case output.ModeMarkdown:
		showRuleMarkdown(r, info)
	default:
		showRuleText(r, info)
	}
	return nil
}

func newRuleInfo(m rule.Meta) RuleInfo {
	info := RuleInfo{
		ID:                m.ID.String(),
		RuleSet:           m.ID.RuleSet(),
		Description:       m.Description,
		DocURL:            m.DocURL,
		Experimental:      m.Experimental,
		OfficialStyleOnly: m.OfficialStyleOnly,
		Priority:          priorityName(m.Priority),
	}
	for _, ra := range m.RunAfter {
		s := ra.Rule.String()
		if ra.Mode == rule.RequiresEnabled {
			s += " (required)"
		}
		info.RunAfter = append(info.RunAfter, s)
	}
	for _, p := range m.Properties {
		info.Properties = append(info.Properties, PropertyInfo{
			Name:        p.PropertyName(),
			Description: p.PropertyDescription(),
		})
	}
	return info
}

func priorityName(p rule.Priority) string {
	switch p {
	case rule.RunAsEarlyAsPossible:
		return "early"
	case rule.RunAsLateAsPossible:
		return "late"
	}
	return "normal"
}

func ruleSetTitle(id string) string {
	return cases.Title(language.English).String(id) + " Rules"
}

// ruleFlags lists the conditions under which a rule runs.
func ruleFlags(info RuleInfo) string {
	var flags []string
	if info.Experimental {
		flags = append(flags, "experimental")
	}
	if info.OfficialStyleOnly {
		flags = append(flags, "official style")
	}
	return strings.Join(flags, ", ")
}

// listRulesText outputs rules as one styled table per rule set.
func listRulesText(r *output.Renderer, rules []RuleInfo) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Style Rules (%d)", len(rules))))
	r.Println("")

	for i := 0; i < len(rules); {
		set := rules[i].RuleSet
		r.Println(styles.Header2.Render(ruleSetTitle(set)))

		t := table.NewWriter()
		t.SetOutputMirror(r.Writer())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Rule", "Description", "Runs"})
		for ; i < len(rules) && rules[i].RuleSet == set; i++ {
			t.AppendRow(table.Row{
				styles.RuleID.Render(rules[i].ID),
				rules[i].Description,
				ruleFlags(rules[i]),
			})
		}
		t.Render()
		r.Println("")
	}

	r.Println(styles.Muted.Render("Use 'leaplint rules <rule-id>' for details"))
	r.Println("")
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, rules []RuleInfo) {
	r.Println("# Style Rules")
	r.Println("")

	currentSet := ""
	for _, info := range rules {
		if info.RuleSet != currentSet {
			if currentSet != "" {
				r.Println("")
			}
			currentSet = info.RuleSet
			r.Println("## " + ruleSetTitle(currentSet))
			r.Println("")
		}
		line := fmt.Sprintf("- **%s** - %s", info.ID, info.Description)
		if flags := ruleFlags(info); flags != "" {
			line += " (" + flags + ")"
		}
		r.Println(line)
	}
	r.Println("")
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, info RuleInfo) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(info.ID))
	r.Println("")
	r.Println("  " + info.Description)
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Rule set"), info.RuleSet)
	r.Printf("  %s: %s\n", styles.Bold.Render("Priority"), info.Priority)
	if flags := ruleFlags(info); flags != "" {
		r.Printf("  %s: %s\n", styles.Bold.Render("Runs"), flags)
	}
	if len(info.RunAfter) > 0 {
		r.Printf("  %s: %s\n", styles.Bold.Render("Runs after"), strings.Join(info.RunAfter, ", "))
	}
	if info.DocURL != "" {
		r.Printf("  %s: %s\n", styles.Bold.Render("Docs"), info.DocURL)
	}
	r.Println("")

	if len(info.Properties) > 0 {
		r.Println(styles.Bold.Render("Properties"))
		for _, p := range info.Properties {
			r.Printf("  %s  %s\n", styles.RuleID.Render(p.Name), styles.Muted.Render(p.Description))
		}
		r.Println("")
	}
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, info RuleInfo) {
	r.Printf("# %s\n\n", info.ID)
	r.Println(info.Description)
	r.Println("")
	r.Println(output.FormatKeyValue("Rule set", info.RuleSet))
	r.Println(output.FormatKeyValue("Priority", info.Priority))
	if flags := ruleFlags(info); flags != "" {
		r.Println(output.FormatKeyValue("Runs", flags))
	}
	if len(info.RunAfter) > 0 {
		r.Println(output.FormatKeyValue("Runs after", strings.Join(info.RunAfter, ", ")))
	}
	if info.DocURL != "" {
		r.Println(output.FormatKeyValue("Docs", info.DocURL))
	}
	r.Println("")

	if len(info.Properties) > 0 {
		r.Println("## Properties")
		r.Println("")
		for _, p := range info.Properties {
			r.Printf("- `%s` - %s\n", p.Name, p.Description)
		}
		r.Println("")
	}
}
