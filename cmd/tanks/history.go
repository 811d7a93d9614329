package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tanks/internal/registry"
	"github.com/vovakirdan/tui-tanks/internal/storage"
)

var (
	flagHistoryLimit   int
	flagHistoryPlayers bool
	flagHistoryJournal string
	flagHistoryClear   bool
)

var historyCmd = &cobra.Command{
	Use:   "history [game]",
	Short: "Show finished duels",
	Long: `Display recent duels, optionally for one battlefield.

Examples:
  tanks history
  tanks history tanks-arena --limit 20
  tanks history --players
  tanks history --journal <match-id>
  tanks history tanks-arena --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of rows to show")
	historyCmd.Flags().BoolVar(&flagHistoryPlayers, "players", false, "Show win/loss records per player name")
	historyCmd.Flags().StringVar(&flagHistoryJournal, "journal", "", "Print the event journal of one match")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete every recorded duel of the given game")
}

func runHistory(_ *cobra.Command, args []string) {
	gameID := ""
	if len(args) == 1 {
		gameID = args[0]
		if !registry.Exists(gameID) {
			fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
			fmt.Fprintln(os.Stderr, "Run 'tanks list' to see available games.")
			os.Exit(1)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening match database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagHistoryClear:
		if gameID == "" {
			err = fmt.Errorf("--clear needs a game, see 'tanks list'")
			break
		}
		if err = store.ClearMatches(gameID); err == nil {
			fmt.Printf("Cleared the history of %s.\n", gameID)
		}
	case flagHistoryJournal != "":
		err = printJournal(store, flagHistoryJournal)
	case flagHistoryPlayers:
		err = printPlayers(store, flagHistoryLimit)
	default:
		err = printMatches(store, gameID, flagHistoryLimit)
	}
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printMatches(store *storage.Store, gameID string, limit int) error {
	matches, err := store.RecentMatches(gameID, limit)
	if err != nil {
		return err
	}

	title := "all battlefields"
	if gameID != "" {
		title = gameID
	}
	fmt.Printf("Recent duels - %s\n\n", title)

	if len(matches) == 0 {
		fmt.Println("No duels recorded yet.")
		fmt.Println()
		fmt.Println("Finish a game with 'tanks play' to start the history!")
		return nil
	}

	fmt.Printf("  %-16s  %-12s  %-16s  %-16s  %5s  %s\n", "Date", "Game", "Winner", "Loser", "Turns", "Match")
	fmt.Printf("  %-16s  %-12s  %-16s  %-16s  %5s  %s\n", "----", "----", "------", "-----", "-----", "-----")
	for _, m := range matches {
		fmt.Printf("  %-16s  %-12s  %-16s  %-16s  %5d  %s\n",
			m.CreatedAt.Local().Format("2006-01-02 15:04"), m.GameID, m.Winner, m.Loser, m.Turns, m.MatchID)
	}

	if gameID != "" {
		stats, err := store.GetGameStats(gameID)
		if err == nil && stats != nil && stats.MatchCount > 0 {
			fmt.Println()
			fmt.Printf("%d duels, %.1f turns on average, longest %d turns\n",
				stats.MatchCount, stats.AvgTurns, stats.LongestDuel)
		}
	}
	return nil
}

func printPlayers(store *storage.Store, limit int) error {
	records, err := store.PlayerRecords(limit)
	if err != nil {
		return err
	}

	fmt.Println("Player records")
	fmt.Println()
	if len(records) == 0 {
		fmt.Println("No duels recorded yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %4s  %4s  %4s  %s\n", "Rank", "Name", "P", "W", "L", "Last played")
	fmt.Printf("  %-4s  %-16s  %4s  %4s  %4s  %s\n", "----", "----", "-", "-", "-", "-----------")
	for i, r := range records {
		fmt.Printf("  %-4d  %-16s  %4d  %4d  %4d  %s\n",
			i+1, r.Name, r.Played(), r.Wins, r.Losses, r.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func printJournal(store *storage.Store, matchID string) error {
	match, err := store.MatchByID(matchID)
	if err != nil {
		return err
	}
	if match == nil {
		return fmt.Errorf("no match %q", matchID)
	}
	records, err := store.Journal(matchID)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s beat %s in %d turns\n\n", match.GameID, match.Winner, match.Loser, match.Turns)
	for _, r := range records {
		fmt.Printf("  %3d  %-10s", r.Turn, r.Kind)
		if r.Actor != "" {
			fmt.Printf("  %s", r.Actor)
		}
		if r.Target != "" {
			fmt.Printf(" -> %s", r.Target)
		}
		if r.From != 0 || r.To != 0 {
			fmt.Printf("  %d -> %d", r.From, r.To)
		}
		if r.Value != 0 {
			fmt.Printf("  %g", r.Value)
		}
		if r.Health != 0 || r.Shield != 0 {
			fmt.Printf("  hp %g sh %g", r.Health, r.Shield)
		}
		fmt.Println()
	}
	return nil
}
