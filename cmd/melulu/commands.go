package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/five82/melulu/internal/app"
	"github.com/five82/melulu/internal/catalog"
	"github.com/five82/melulu/internal/logging"
)

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "print normalized records as JSON",
	}
}

func commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "home",
			Usage: "Print one page of the home feed",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "page",
					Usage: "page number",
					Value: 1,
				},
				jsonFlag(),
			},
			Action: listAction(func(*cli.Command) (string, error) { return "", nil }),
		},
		{
			Name:      "search",
			Usage:     "Print search results",
			ArgsUsage: "<query>",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "page",
					Usage: "page number",
					Value: 1,
				},
				jsonFlag(),
			},
			Action: listAction(func(cmd *cli.Command) (string, error) {
				q := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
				if q == "" {
					return "", fmt.Errorf("search query is required")
				}
				return q, nil
			}),
		},
		{
			Name:      "show",
			Usage:     "Print a drama's details",
			ArgsUsage: "<id | share link>",
			Flags:     []cli.Flag{jsonFlag()},
			Action:    showAction,
		},
		{
			Name:      "play",
			Usage:     "Play a drama in the media player until interrupted",
			ArgsUsage: "<id | share link>",
			Action:    playAction,
		},
		{
			Name:      "link",
			Usage:     "Print a drama's share link and copy it to the clipboard",
			ArgsUsage: "<id | share link>",
			Action:    linkAction,
		},
	}
}

// withSession builds a headless session logging to stderr.
func withSession(ctx context.Context, cmd *cli.Command, fn func(*app.Session) error) error {
	ov := overrides(cmd)
	cfg, err := app.LoadConfig(cmd.String("config"), ov)
	if err != nil {
		return err
	}
	level := "warn"
	if ov.Debug {
		level = "debug"
	}
	logger, err := logging.New(os.Stderr, logging.Options{Level: level, Color: true})
	if err != nil {
		return err
	}

	session, err := app.NewSession(cfg, logger, app.Deps{})
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("close player", "error", err)
		}
	}()
	return fn(session)
}

func listAction(query func(*cli.Command) (string, error)) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		q, err := query(cmd)
		if err != nil {
			return err
		}
		return withSession(ctx, cmd, func(s *app.Session) error {
			items, err := s.List(ctx, q, cmd.Int("page"))
			if err != nil {
				return err
			}
			if cmd.Bool("json") {
				return writeJSON(os.Stdout, items)
			}
			return writeItems(os.Stdout, items)
		})
	}
}

func showAction(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd)
	if err != nil {
		return err
	}
	return withSession(ctx, cmd, func(s *app.Session) error {
		detail, err := s.Show(ctx, id)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return writeJSON(os.Stdout, detail)
		}
		return writeDetail(os.Stdout, detail)
	})
}

func playAction(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd)
	if err != nil {
		return err
	}
	return withSession(ctx, cmd, func(s *app.Session) error {
		snap, err := s.Play(ctx, id)
		if err != nil {
			return err
		}
		if !snap.Player.Playing {
			fmt.Fprintln(os.Stdout, snap.Status.Text)
			return nil
		}
		fmt.Fprintf(os.Stdout, "Playing %s (%s)\n", snap.Player.Title, snap.Player.Meta)
		fmt.Fprintln(os.Stdout, "Press ctrl+c to stop.")
		<-ctx.Done()
		return nil
	})
}

func linkAction(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd)
	if err != nil {
		return err
	}
	return withSession(ctx, cmd, func(s *app.Session) error {
		link, err := s.Link(ctx, id)
		if link == "" {
			return err
		}
		fmt.Fprintln(os.Stdout, link)
		if err != nil {
			s.Logger.Warn("link not copied", "error", err)
		}
		return nil
	})
}

func idArg(cmd *cli.Command) (string, error) {
	arg := cmd.Args().First()
	id := app.DeepLinkID(arg)
	if id == "" {
		return "", fmt.Errorf("drama id is required (got %q)", arg)
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeItems(w io.Writer, items []catalog.ListItem) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No dramas found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t▶ %s\n", it.ID, it.Title, catalog.CardTagline(it), catalog.FormatViews(it.Views))
	}
	return tw.Flush()
}

func writeDetail(w io.Writer, d catalog.Detail) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", d.Title)
	fmt.Fprintf(&b, "%s\n", catalog.DetailMeta(d))
	if d.Rating != "" {
		fmt.Fprintf(&b, "Rating ★ %s\n", d.Rating)
	}
	if tags := catalog.TagsLine(d); tags != "" {
		fmt.Fprintf(&b, "%s\n", tags)
	}
	if d.Desc != "" {
		fmt.Fprintf(&b, "\n%s\n", d.Desc)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
