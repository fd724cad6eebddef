package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/law-makers/linkfill/internal/config"
	"github.com/law-makers/linkfill/internal/engine/metadata"
	"github.com/law-makers/linkfill/internal/ui"
)

const helpLabelWidth = 30

func renderHelp(w io.Writer, cmd *cobra.Command) {
	fmt.Fprintf(w, "\n%s\n", ui.Bold(ui.ColorCyan+strings.ToUpper(cmd.Name())))
	if cmd.Long != "" {
		fmt.Fprintf(w, "%s\n", cmd.Long)
	} else if cmd.Short != "" {
		fmt.Fprintf(w, "%s\n", cmd.Short)
	}

	renderUsage(w, cmd)

	// The extraction order only matters where a command produces records
	if !cmd.HasParent() {
		section(w, "Fields")
		for _, f := range fieldOrder() {
			fmt.Fprintf(w, "  %s\n", ui.Field(f[0], f[1], 12))
		}
	}

	if cmd.HasExample() {
		section(w, "Examples")
		for _, line := range strings.Split(cmd.Example, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case line == "":
				continue
			case strings.HasPrefix(line, "#"):
				fmt.Fprintf(w, "  %s%s%s\n", ui.ColorDim, line, ui.ColorReset)
			default:
				fmt.Fprintf(w, "  %s\n", ui.Success("$ "+line))
			}
		}
	}

	if cmd.HasAvailableInheritedFlags() {
		section(w, "Global Flags")
		renderFlags(w, cmd.InheritedFlags())
	}
	fmt.Fprintln(w)
}

// renderUsage prints the usage line, subcommands and local flags
func renderUsage(w io.Writer, cmd *cobra.Command) {
	section(w, "Usage")
	if cmd.Runnable() {
		fmt.Fprintf(w, "  %s%s%s\n", ui.ColorCyan, cmd.UseLine(), ui.ColorReset)
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "  %s%s <command> [flags]%s\n", ui.ColorCyan, cmd.CommandPath(), ui.ColorReset)

		section(w, "Commands")
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() && c.Name() != "help" {
				fmt.Fprintf(w, "  %s\n", ui.Field(c.Name(), c.Short, 12))
			}
		}
	}

	if cmd.HasAvailableLocalFlags() {
		section(w, "Flags")
		renderFlags(w, cmd.LocalFlags())
	}
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", ui.Bold(ui.ColorWhite+title))
}

// renderFlags lists flags with their default and the LINKFILL_* variable
// that sets the same option
func renderFlags(w io.Writer, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		desc := flagDescription(f)
		fmt.Fprintf(w, "  %s%s%s%s%s%s%s\n",
			ui.ColorGreen, flagLabel(f), ui.ColorReset,
			strings.Repeat(" ", max(helpLabelWidth-len(flagLabel(f)), 2)),
			ui.ColorDim, desc, ui.ColorReset)
	})
}

func flagLabel(f *pflag.Flag) string {
	label := "    --" + f.Name
	if f.Shorthand != "" {
		label = "-" + f.Shorthand + ", --" + f.Name
	}
	if varname, _ := pflag.UnquoteUsage(f); varname != "" {
		label += " " + varname
	}
	return label
}

func flagDescription(f *pflag.Flag) string {
	_, desc := pflag.UnquoteUsage(f)
	switch f.DefValue {
	case "", "0", "false", "[]":
	default:
		desc += fmt.Sprintf(" (default %s)", f.DefValue)
	}
	if name, ok := config.EnvFor(f); ok {
		desc += " [$" + name + "]"
	}
	return desc
}

// fieldOrder describes, per record field, the tiers tried until one yields a value
func fieldOrder() [][2]string {
	s := metadata.DefaultStrategies()
	return [][2]string{
		{"title", fmt.Sprintf("page selectors (%d)", len(s.Title))},
		{"price", fmt.Sprintf("JSON-LD offer > meta tags (%d) > page selectors (%d)", len(s.MetaPrice), len(s.Price))},
		{"image", fmt.Sprintf("JSON-LD image > meta tags (%d) > page selectors (%d)", len(s.MetaImage), len(s.Image))},
		{"supplier", fmt.Sprintf("JSON-LD brand > brand selectors (%d) > shop domain", len(s.Brand))},
	}
}
