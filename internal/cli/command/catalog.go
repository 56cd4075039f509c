package command

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/livemedia/linkgate/internal/core/domain"
)

// CatalogCommand returns the catalog subcommand group.
func CatalogCommand() *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"cat"},
		Usage:   "Manage SKU to file mappings",
		Subcommands: []*cli.Command{
			{
				Name:      "put",
				Usage:     "Create or update a catalog entry",
				ArgsUsage: "SKU FILENAME",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "Display title for the thank-you page",
					},
				},
				Action: catalogPut,
			},
			{
				Name:      "get",
				Usage:     "Show one catalog entry",
				ArgsUsage: "SKU",
				Action:    catalogGet,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List all catalog entries",
				Action:  catalogList,
			},
			{
				Name:      "rm",
				Aliases:   []string{"delete"},
				Usage:     "Remove a catalog entry",
				ArgsUsage: "SKU",
				Action:    catalogDelete,
			},
		},
	}
}

func catalogPut(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: catalog put SKU FILENAME", 2)
	}

	s, err := openStores(c)
	if err != nil {
		return err
	}
	defer s.Close()

	product := &domain.Product{
		SKU:      domain.NormalizeSKU(c.Args().Get(0)),
		Filename: c.Args().Get(1),
		Title:    c.String("title"),
	}
	if err := s.catalog.Put(c.Context, product); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "stored %s -> %s\n", product.SKU, product.Filename)
	return nil
}

func catalogGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: catalog get SKU", 2)
	}

	s, err := openStores(c)
	if err != nil {
		return err
	}
	defer s.Close()

	product, err := s.catalog.Lookup(c.Context, domain.NormalizeSKU(c.Args().First()))
	if err != nil {
		return err
	}

	if c.String("output") == "json" {
		return printJSON(c, product)
	}
	fmt.Fprintf(c.App.Writer, "SKU:      %s\nFilename: %s\nTitle:    %s\n",
		product.SKU, product.Filename, product.DisplayTitle())
	return nil
}

func catalogList(c *cli.Context) error {
	s, err := openStores(c)
	if err != nil {
		return err
	}
	defer s.Close()

	products, err := s.catalog.List(c.Context)
	if err != nil {
		return err
	}

	if c.String("output") == "json" {
		return printJSON(c, products)
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SKU\tFILENAME\tTITLE")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.SKU, p.Filename, p.Title)
	}
	return w.Flush()
}

func catalogDelete(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: catalog rm SKU", 2)
	}

	s, err := openStores(c)
	if err != nil {
		return err
	}
	defer s.Close()

	sku := domain.NormalizeSKU(c.Args().First())
	if err := s.catalog.Delete(c.Context, sku); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "removed %s\n", sku)
	return nil
}
