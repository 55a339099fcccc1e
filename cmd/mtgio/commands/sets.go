package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/mtgio/internal/constants"
	"github.com/fivetwenty-io/mtgio/pkg/mtg"
)

// NewSetsCommand creates the sets command group.
func NewSetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sets",
		Aliases: []string{"set"},
		Short:   "Browse card sets",
		Long:    "List and inspect Magic: The Gathering sets and generate booster packs",
	}

	cmd.AddCommand(newSetsListCommand())
	cmd.AddCommand(newSetsGetCommand())
	cmd.AddCommand(newSetsBoosterCommand())

	return cmd
}

type setsListOptions struct {
	name     string
	block    string
	filters  []string
	page     int
	pageSize int
	allPages bool
	maxPages int
}

func newSetsListCommand() *cobra.Command {
	opts := &setsListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sets",
		Long: `List sets, optionally filtered.

--name and --block match partially. --filter adds any other key=value clause;
separate values with "," when all must match or "|" when any may match.`,
		Example: `  mtgio sets list --block "Khans of Tarkir"
  mtgio sets list --name "Khans of Tarkir" --block "Khans of Tarkir"
  mtgio sets list --filter "name=Amonkhet|Hour of Devastation" --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetsListCommand(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "filter by set name")
	cmd.Flags().StringVar(&opts.block, "block", "", "filter by block")
	cmd.Flags().StringArrayVar(&opts.filters, "filter", nil, "additional key=value filter (repeatable)")
	cmd.Flags().IntVar(&opts.page, "page", 0, "page to fetch")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "results per page")
	cmd.Flags().BoolVar(&opts.allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&opts.maxPages, "max-pages", 0, "stop --all after this many pages (0 = no limit)")

	return cmd
}

func runSetsListCommand(cmd *cobra.Command, opts *setsListOptions) error {
	if opts.pageSize < 0 || opts.pageSize > constants.MaxPageSize {
		return fmt.Errorf("%w: %d", constants.ErrInvalidPageSize, opts.pageSize)
	}

	clauses, err := parseFilterFlags(opts.filters)
	if err != nil {
		return err
	}

	filter := buildSetFilter(opts.name, opts.block, clauses)

	ctx, cancel := commandContext(cmd)
	defer cancel()

	client, closeClient, err := createClient(ctx)
	if err != nil {
		return err
	}
	defer closeClient()

	resp, err := listSets(ctx, client, filter, opts)
	if err != nil {
		return err
	}

	return renderResponse(cmd.OutOrStdout(), resp, renderSetsTable)
}

func listSets(ctx context.Context, client mtg.Client, filter mtg.SetFilter, opts *setsListOptions) (*mtg.Response[[]mtg.Set], error) {
	params := mtg.NewQueryParams().WithPage(opts.page).WithPageSize(opts.pageSize)

	if !opts.allPages {
		resp, err := client.Sets().List(ctx, filter, params)
		if err != nil {
			return nil, fmt.Errorf("failed to list sets: %w", err)
		}

		return resp, nil
	}

	var last mtg.Meta

	fetch := func(ctx context.Context, page int) (*mtg.Response[[]mtg.Set], error) {
		resp, err := client.Sets().List(ctx, filter, mtg.NewQueryParams().WithPage(page).WithPageSize(opts.pageSize))
		if err == nil {
			last = resp.Meta
		}

		return resp, err
	}

	sets, err := mtg.FetchAllPages[mtg.Set](ctx, fetch, &mtg.PaginationOptions{MaxPages: opts.maxPages})
	if err != nil {
		return nil, fmt.Errorf("failed to list sets: %w", err)
	}

	return &mtg.Response[[]mtg.Set]{Meta: last, Content: sets}, nil
}

func renderSetsTable(w io.Writer, sets []mtg.Set) error {
	if len(sets) == 0 {
		_, _ = io.WriteString(w, "No sets found\n")

		return nil
	}

	table := newTable(w, "Code", "Name", "Type", "Block", "Released", "Online Only")

	for _, set := range sets {
		onlineOnly := "no"
		if set.OnlineOnly {
			onlineOnly = "yes"
		}

		_ = table.Append(set.Code, set.Name, set.Type, orNotAvailable(set.Block),
			orNotAvailable(set.ReleaseDate), onlineOnly)
	}

	return renderTable(table)
}

func newSetsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get SET_CODE...",
		Short: "Get set details",
		Long:  "Display the details of one set, or a table of several sets fetched concurrently",
		Example: `  mtgio sets get KTK
  mtgio sets get KTK FRF DTK`,
		RunE: func(cmd *cobra.Command, args []string) error {
			codes, err := requireKeys(args, ErrSetCodeArgument)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()

			client, closeClient, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer closeClient()

			if len(codes) == 1 {
				resp, err := client.Sets().Get(ctx, codes[0])
				if err != nil {
					return fmt.Errorf("failed to get set: %w", err)
				}

				return renderResponse(cmd.OutOrStdout(), resp, renderSetDetails)
			}

			builder := mtg.NewBatchBuilder()
			for _, code := range codes {
				builder.AddGetSet(code, code)
			}

			sets, err := collectBatch[mtg.Set](ctx, client, builder.Build())
			if err != nil {
				return fmt.Errorf("failed to get sets: %w", err)
			}

			return renderResponse(cmd.OutOrStdout(), &mtg.Response[[]mtg.Set]{Content: sets}, renderSetsTable)
		},
	}
}

func renderSetDetails(w io.Writer, set mtg.Set) error {
	table := newTable(w, "Property", "Value")

	_ = table.Append("Code", set.Code)
	_ = table.Append("Name", set.Name)
	_ = table.Append("Type", set.Type)
	_ = table.Append("Border", orNotAvailable(set.Border))
	_ = table.Append("Block", orNotAvailable(set.Block))
	_ = table.Append("Released", orNotAvailable(set.ReleaseDate))
	_ = table.Append("Gatherer Code", orNotAvailable(set.GathererCode))
	_ = table.Append("Booster Slots", fmt.Sprintf("%d", len(set.Booster)))

	return renderTable(table)
}

func newSetsBoosterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "booster SET_CODE",
		Short: "Open a booster pack",
		Long:  "Generate a random booster pack for a set",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codes, err := requireKeys(args, ErrSetCodeArgument)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()

			client, closeClient, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer closeClient()

			resp, err := client.Sets().Booster(ctx, codes[0])
			if err != nil {
				return fmt.Errorf("failed to generate booster: %w", err)
			}

			return renderResponse(cmd.OutOrStdout(), resp, renderCardsTable)
		},
	}
}
