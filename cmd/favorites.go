package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/muderick/searchfav/internal/favorites"
	"github.com/muderick/searchfav/internal/logging"
	"github.com/spf13/cobra"
)

var (
	favIDStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	favTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CDD6F4"))
	favCatStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA"))
	favDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")).Italic(true)
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"favs"},
	Short:   "Inspect or edit saved favorites without the TUI",
}

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved favorites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFavorites(cmd, func(ctx context.Context, favs *favorites.Set) error {
			out := cmd.OutOrStdout()
			if favs.Len() == 0 {
				fmt.Fprintln(out, favDimStyle.Render("No favorites added yet."))
				return nil
			}
			for _, it := range favs.Items() {
				line := favIDStyle.Render(fmt.Sprintf("#%d", it.ID)) + " " + favTitleStyle.Render(it.Title)
				if it.Category != "" {
					line += " " + favCatStyle.Render("["+it.Category+"]")
				}
				fmt.Fprintln(out, line)
			}
			return nil
		})
	},
}

var favRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a favorite by item id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", args[0], err)
		}
		return withFavorites(cmd, func(ctx context.Context, favs *favorites.Set) error {
			removed, err := favs.Remove(ctx, id)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "No favorite with id %d.\n", id)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d.\n", id)
			return nil
		})
	},
}

var favClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all favorites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFavorites(cmd, func(ctx context.Context, favs *favorites.Set) error {
			n := favs.Len()
			if _, err := favs.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d favorites.\n", n)
			return nil
		})
	},
}

func init() {
	favoritesCmd.AddCommand(favListCmd, favRemoveCmd, favClearCmd)
}

func withFavorites(cmd *cobra.Command, fn func(context.Context, *favorites.Set) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogPath(), cfg.Log.Level, flagVerbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	favs, closeStore, err := openFavorites(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(ctx, favs)
}
