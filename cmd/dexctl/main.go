// Package main is a command-line browser for fan-game datasets. It reads the
// same data root as dexserver without starting a server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/ramonehamilton/fangame-dex/internal/browser"
	"github.com/ramonehamilton/fangame-dex/internal/charts"
	"github.com/ramonehamilton/fangame-dex/internal/config"
	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset"
	"github.com/ramonehamilton/fangame-dex/internal/dex/effectiveness"
	"github.com/ramonehamilton/fangame-dex/internal/dex/evolution"
	"github.com/ramonehamilton/fangame-dex/internal/dex/search"
	"github.com/ramonehamilton/fangame-dex/internal/ipc"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
			os.Exit(2)
		}
		log.Fatalf("Error: %v", err)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dexctl <command> [flags] [args]")
	fmt.Fprintln(w, "\nAvailable commands:")
	fmt.Fprintln(w, "  games                     - List games under the data root")
	fmt.Fprintln(w, "  search [query]            - Search species (-type, -ability, -move, -sort)")
	fmt.Fprintln(w, "  details <species>         - Show a species' detail view")
	fmt.Fprintln(w, "  evolution <species>       - Show a species' evolution line")
	fmt.Fprintln(w, "  matchup <species|types>   - Show defensive matchups (-types Fire,Water)")
	fmt.Fprintln(w, "  chart <species> [more]    - Render a base stat chart to HTML")
	fmt.Fprintln(w, "  watch                     - Stream events from a running dexserver")
	fmt.Fprintln(w, "\nCommon flags: -data <root> -game <name> -json")
}

// cli holds the flags shared by every command.
type cli struct {
	fs       *flag.FlagSet
	data     string
	game     string
	json     bool
	services *browser.Services
}

func newCLI(name string) *cli {
	c := &cli{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	c.fs.StringVar(&c.data, "data", "", "Data root (default: from config)")
	c.fs.StringVar(&c.game, "game", "", "Game name (default: from config)")
	c.fs.BoolVar(&c.json, "json", false, "Print JSON instead of text")
	return c
}

// parse reads the flags, fills defaults from the config file and builds the
// services.
func (c *cli) parse(args []string) error {
	if err := c.fs.Parse(args); err != nil {
		return errUsage
	}

	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	if c.data == "" {
		c.data = cfg.Data.Root
	}
	if c.game == "" {
		c.game = cfg.Data.DefaultGame
	}

	store := dataset.NewStore(dataset.NewLoader(c.data), dataset.Hooks{})
	c.services = browser.NewServices(store, nil, nil)
	return nil
}

func (c *cli) requireGame() error {
	if c.game == "" {
		return fmt.Errorf("no game selected: pass -game or set data.default_game")
	}
	return nil
}

func (c *cli) arg(i int) (string, error) {
	if c.fs.NArg() <= i {
		return "", errUsage
	}
	return c.fs.Arg(i), nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}

	switch args[0] {
	case "games":
		return runGames(ctx, args[1:], stdout)
	case "search":
		return runSearch(ctx, args[1:], stdout)
	case "details":
		return runDetails(ctx, args[1:], stdout)
	case "evolution", "evo":
		return runEvolution(ctx, args[1:], stdout)
	case "matchup", "matchups":
		return runMatchup(ctx, args[1:], stdout)
	case "chart":
		return runChart(ctx, args[1:], stdout)
	case "watch":
		return runWatch(ctx, args[1:], stdout)
	case "help", "-h", "-help":
		printUsage(stdout)
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

func runGames(ctx context.Context, args []string, stdout io.Writer) error {
	c := newCLI("games")
	if err := c.parse(args); err != nil {
		return err
	}

	games, err := browser.NewGamesFacade(c.services).ListGames(ctx)
	if err != nil {
		return err
	}
	if c.json {
		return writeJSON(stdout, games)
	}

	if len(games) == 0 {
		fmt.Fprintf(stdout, "No games found under %s\n", c.data)
		return nil
	}
	for _, g := range games {
		fmt.Fprintln(stdout, g.Name)
	}
	return nil
}

func runSearch(ctx context.Context, args []string, stdout io.Writer) error {
	c := newCLI("search")
	var q search.Query
	c.fs.StringVar(&q.Name, "name", "", "Filter by name")
	c.fs.StringVar(&q.Type, "type", "", "Filter by type")
	c.fs.StringVar(&q.Ability, "ability", "", "Filter by ability")
	c.fs.StringVar(&q.Move, "move", "", "Filter by learnable move")
	c.fs.StringVar(&q.Sort, "sort", search.SortAlphabetical, "Sort order: alphabetical or file")
	if err := c.parse(args); err != nil {
		return err
	}
	if err := c.requireGame(); err != nil {
		return err
	}
	q.Text = strings.Join(c.fs.Args(), " ")

	list, err := browser.NewSpeciesFacade(c.services).Search(ctx, c.game, q)
	if err != nil {
		return err
	}
	if c.json {
		return writeJSON(stdout, list)
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tTYPES\tABILITIES")
	for _, card := range list.Cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", card.Key, card.Name, badgeNames(card.Types), strings.Join(card.Abilities, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\n%d species\n", list.Total)
	return nil
}

func runDetails(ctx context.Context, args []string, stdout io.Writer) error {
	c := newCLI("details")
	if err := c.parse(args); err != nil {
		return err
	}
	if err := c.requireGame(); err != nil {
		return err
	}
	key, err := c.arg(0)
	if err != nil {
		return err
	}

	view, err := browser.NewDetailsFacade(c.services).GetDetails(ctx, c.game, key)
	if err != nil {
		return withSuggestions(err)
	}
	if c.json {
		return writeJSON(stdout, view)
	}

	fmt.Fprintf(stdout, "%s (%s)\n", view.Main.Name, view.Main.Key)
	fmt.Fprintf(stdout, "  Types:      %s\n", badgeNames(view.Main.Types))
	abilities := make([]string, 0, len(view.Main.Abilities)+len(view.Main.HiddenAbilities))
	for _, a := range view.Main.Abilities {
		abilities = append(abilities, a.Name)
	}
	for _, a := range view.Main.HiddenAbilities {
		abilities = append(abilities, a.Name+" (hidden)")
	}
	fmt.Fprintf(stdout, "  Abilities:  %s\n", strings.Join(abilities, ", "))
	fmt.Fprintf(stdout, "  Height:     %s\n", view.Info.Height)
	fmt.Fprintf(stdout, "  Weight:     %s\n", view.Info.Weight)
	fmt.Fprintf(stdout, "  Egg groups: %s\n", strings.Join(view.Info.EggGroups, ", "))

	fmt.Fprintln(stdout, "\nBase stats:")
	for _, s := range view.Stats {
		fmt.Fprintf(stdout, "  %-8s %s\n", s.Name, s.Value)
	}

	fmt.Fprintln(stdout, "\nForms:")
	if len(view.Forms.Items) == 0 {
		fmt.Fprintf(stdout, "  %s\n", view.Forms.Message)
	}
	for _, f := range view.Forms.Items {
		fmt.Fprintf(stdout, "  %s (%s)\n", f.Name, badgeNames(f.Types))
	}

	fmt.Fprintln(stdout, "\nEvolution:")
	switch {
	case view.EvolutionErr != "":
		fmt.Fprintf(stdout, "  %s\n", view.EvolutionErr)
	case view.Evolution != nil:
		printChain(stdout, view.Evolution)
	}

	fmt.Fprintln(stdout)
	printMatchups(stdout, &view.Effectiveness)
	return nil
}

func runEvolution(ctx context.Context, args []string, stdout io.Writer) error {
	c := newCLI("evolution")
	if err := c.parse(args); err != nil {
		return err
	}
	if err := c.requireGame(); err != nil {
		return err
	}
	key, err := c.arg(0)
	if err != nil {
		return err
	}

	chain, err := browser.NewDetailsFacade(c.services).GetEvolutionChain(ctx, c.game, key)
	if err != nil {
		return withSuggestions(err)
	}
	if c.json {
		return writeJSON(stdout, chain)
	}
	printChain(stdout, chain)
	return nil
}

func runMatchup(ctx context.Context, args []string, stdout io.Writer) error {
	c := newCLI("matchup")
	types := c.fs.String("types", "", "Comma-separated types instead of a species")
	if err := c.parse(args); err != nil {
		return err
	}
	if err := c.requireGame(); err != nil {
		return err
	}

	facade := browser.NewMatchupsFacade(c.services)
	var (
		result *effectiveness.Result
		err    error
	)
	if *types != "" {
		result, err = facade.ForTypes(ctx, c.game, strings.Split(*types, ","))
	} else {
		key, argErr := c.arg(0)
		if argErr != nil {
			return argErr
		}
		result, err = facade.ForSpecies(ctx, c.game, key)
	}
	if err != nil {
		return withSuggestions(err)
	}
	if c.json {
		return writeJSON(stdout, result)
	}
	printMatchups(stdout, result)
	return nil
}

func runChart(ctx context.Context, args []string, stdout io.Writer) error {
	c := newCLI("chart")
	out := c.fs.String("out", "", "Output file (default: <species>-stats.html)")
	open := c.fs.Bool("open", false, "Open the chart in a browser")
	if err := c.parse(args); err != nil {
		return err
	}
	if err := c.requireGame(); err != nil {
		return err
	}
	key, err := c.arg(0)
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = strings.ToLower(key) + "-stats.html"
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}

	renderErr := browser.NewSpeciesFacade(c.services).RenderStatsChart(ctx, f, c.game, key, c.fs.Args()[1:]...)
	if err := f.Close(); err != nil && renderErr == nil {
		renderErr = err
	}
	if renderErr != nil {
		_ = os.Remove(path)
		return withSuggestions(renderErr)
	}

	fmt.Fprintf(stdout, "✓ Chart written to %s\n", path)
	if *open {
		if err := charts.OpenInBrowser(path); err != nil {
			return fmt.Errorf("open chart: %w", err)
		}
	}
	return nil
}

// runWatch streams server events. It does not read local data.
func runWatch(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	server := fs.String("server", "ws://localhost:8080/ws", "dexserver websocket URL")
	prefix := fs.String("prefix", "", "Only print events whose type starts with this")
	count := fs.Int("count", 0, "Exit after this many printed events (0: run until interrupted)")
	jsonOut := fs.Bool("json", false, "Print raw event frames")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := ipc.NewClient(*server)
	printed := 0
	client.On(ipc.AnyEvent, func(e ipc.Event) {
		if !strings.HasPrefix(e.Type, *prefix) {
			return
		}
		if *jsonOut {
			_ = writeJSON(stdout, e)
		} else {
			fmt.Fprintf(stdout, "%s %-22s %s\n", time.Now().Format("15:04:05"), e.Type, string(e.Data))
		}
		printed++
		if *count > 0 && printed >= *count {
			cancel()
		}
	})

	return client.Run(ctx)
}

func printChain(w io.Writer, chain *evolution.Chain) {
	chain.Walk(func(n *evolution.Node, depth int) {
		label := n.Name
		if n.Missing {
			label += " (missing)"
		}
		if n.Current {
			label += " *"
		}
		fmt.Fprintf(w, "  %s%s\n", strings.Repeat("  ", depth), label)
		for _, b := range n.Branches {
			fmt.Fprintf(w, "  %s  -> %s: %s\n", strings.Repeat("  ", depth), b.Node.Name, b.Label)
		}
	})
}

func printMatchups(w io.Writer, r *effectiveness.Result) {
	fmt.Fprintf(w, "Defending as %s:\n", strings.Join(r.Subject, "/"))
	rows := []struct {
		label string
		types []string
	}{
		{"Immune (x0)", r.Immune},
		{"Hyper effective (x4)", r.HyperEffective},
		{"Weak (x2)", r.Weaknesses},
		{"Barely effective (x0.25)", r.BarelyEffective},
		{"Resists (x0.5)", r.Resistances},
	}
	for _, row := range rows {
		if len(row.types) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-25s %s\n", row.label+":", strings.Join(row.types, ", "))
	}
	if len(r.Skipped) > 0 {
		fmt.Fprintf(w, "  Unknown types: %s\n", strings.Join(r.Skipped, ", "))
	}
}

func badgeNames(badges []search.TypeBadge) string {
	names := make([]string, 0, len(badges))
	for _, b := range badges {
		names = append(names, b.Name)
	}
	return strings.Join(names, "/")
}

// withSuggestions appends fuzzy suggestions carried by the error.
func withSuggestions(err error) error {
	var appErr *browser.AppError
	if errors.As(err, &appErr) && len(appErr.Suggestions) > 0 {
		return fmt.Errorf("%w (did you mean: %s?)", err, strings.Join(appErr.Suggestions, ", "))
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
