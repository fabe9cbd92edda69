package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tournevent/pochta/pkg/pochta"
)

const dateLayout = "2006-01-02"

// ============================================================================
// Data
// ============================================================================

func newTariffCmd() *cobra.Command {
	var (
		from, to     string
		mass         int
		mailType     string
		mailCategory string
		declared     int
		fragile      bool
	)

	cmd := &cobra.Command{
		Use:   "tariff",
		Short: "Calculate the delivery rate of a shipment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPochta(cmd, func(ctx context.Context, c *pochta.Client) (any, error) {
				req := pochta.TariffRequest{
					IndexFrom:    &from,
					IndexTo:      &to,
					Mass:         mass,
					MailType:     pochta.MailType(mailType),
					MailCategory: pochta.MailCategory(mailCategory),
				}
				if declared > 0 {
					req.DeclaredValue = &declared
				}
				if cmd.Flags().Changed("fragile") {
					req.Fragile = &fragile
				}
				return c.Data().Tariff(ctx, req)
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Sender postal index")
	cmd.Flags().StringVar(&to, "to", "", "Recipient postal index")
	cmd.Flags().IntVar(&mass, "mass", 0, "Mass in grams (default 100)")
	cmd.Flags().StringVar(&mailType, "mail-type", string(pochta.MailTypePostalParcel), "Mail type")
	cmd.Flags().StringVar(&mailCategory, "mail-category", string(pochta.MailCategorySimple), "Mail category")
	cmd.Flags().IntVar(&declared, "declared-value", 0, "Declared value in kopecks")
	cmd.Flags().BoolVar(&fragile, "fragile", false, "Fragile shipment")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the account balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPochta(cmd, func(ctx context.Context, c *pochta.Client) (any, error) {
				return c.Data().Balance(ctx)
			})
		},
	}
}

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Normalize addresses, names or phone numbers",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "address ADDRESS...",
			Short: "Normalize postal addresses",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withPochta(cmd, func(ctx context.Context, c *pochta.Client) (any, error) {
					addresses := make([]pochta.Address, len(args))
					for i, a := range args {
						addresses[i] = pochta.NewAddress(a)
					}
					return c.Data().NormalizeAddresses(ctx, addresses)
				})
			},
		},
		&cobra.Command{
			Use:   "name NAME...",
			Short: "Normalize full names",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withPochta(cmd, func(ctx context.Context, c *pochta.Client) (any, error) {
					names := make([]pochta.Name, len(args))
					for i, n := range args {
						names[i] = pochta.NewName(n)
					}
					return c.Data().NormalizeNames(ctx, names)
				})
			},
		},
		&cobra.Command{
			Use:   "phone PHONE...",
			Short: "Normalize phone numbers",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withPochta(cmd, func(ctx context.Context, c *pochta.Client) (any, error) {
					phones := make([]pochta.Phone, len(args))
					for i, p := range args {
						phones[i] = pochta.NewPhone(p)
					}
					return c.Data().NormalizePhones(ctx, phones)
				})
			},
		},
	)
	return cmd
}

// ============================================================================
// Post offices
// ============================================================================

func newPostOfficeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "postoffice",
		Short: "Look up post offices",
	}

	get := &cobra.Command{
		Use:   "get INDEX",
		Short: "Show a post office by postal index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPochta(cmd, func(ctx context.Context, c *pochta.Client) (any, error) {
				return c.PostOffices().Get(ctx, args[0])
			})
		},
	}

	var top int
	byAddress := &cobra.Command{
		Use:   "by-address ADDRESS",
		Short: "Find the post offices serving an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPochta(cmd, func(ctx context.Context, c *pochta.Client) (any, error) {
				return c.PostOffices().ByAddress(ctx, args[0], top)
			})
		},
	}
	byAddress.Flags().IntVar(&top, "top", 3, "Number of offices to return")

	var (
		lat, lon  float64
		nearTop   int
		radius    float64
		filter    string
		yandex    string
		geoObject string
	)
	nearby := &cobra.Command{
		Use:   "nearby",
		Short: "Find post offices near a point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPochta(cmd, func(ctx context.Context, c *pochta.Client) (any, error) {
				req := pochta.NearbyRequest{
					Latitude:  lat,
					Longitude: lon,
					Filter:    pochta.PostofficeWorkType(filter),
				}
				if nearTop > 0 {
					req.Top = &nearTop
				}
				if radius > 0 {
					req.SearchRadius = &radius
				}
				if yandex != "" {
					req.YandexAddress = &yandex
				}
				if geoObject != "" {
					req.GeoObject = &geoObject
				}
				return c.PostOffices().Nearby(ctx, req)
			})
		},
	}
	nearby.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	nearby.Flags().Float64Var(&lon, "lon", 0, "Longitude")
	nearby.Flags().IntVar(&nearTop, "top", 0, "Number of offices to return")
	nearby.Flags().Float64Var(&radius, "radius", 0, "Search radius in kilometres")
	nearby.Flags().StringVar(&filter, "filter", string(pochta.WorkAll), "Working hours filter")
	nearby.Flags().StringVar(&yandex, "yandex-address", "", "Address as returned by the geocoder")
	nearby.Flags().StringVar(&geoObject, "geo-object", "", "Geocoder object as JSON")
	_ = nearby.MarkFlagRequired("lat")
	_ = nearby.MarkFlagRequired("lon")

	cmd.AddCommand(get, byAddress, nearby)
	return cmd
}

// ============================================================================
// Orders and batches
// ============================================================================

func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect orders in the backlog",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "search QUERY",
			Short: "Search backlog orders by number, barcode or recipient",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withPochta(cmd, func(ctx context.Context, c *pochta.Client) (any, error) {
					return c.Orders().Search(ctx, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show a backlog order",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withPochta(cmd, func(ctx context.Context, c *pochta.Client) (any, error) {
					return c.Orders().ByID(ctx, args[0])
				})
			},
		},
	)
	return cmd
}

func newBatchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batches",
		Short: "Inspect batches",
	}

	var (
		mailType     string
		mailCategory string
	)
	var listPage func() pochta.Page
	list := &cobra.Command{
		Use:   "list",
		Short: "List batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPochta(cmd, func(ctx context.Context, c *pochta.Client) (any, error) {
				filter := pochta.BatchFilter{
					MailType:     pochta.MailType(mailType),
					MailCategory: pochta.MailCategory(mailCategory),
				}
				return c.Batches().SearchAll(ctx, filter, listPage())
			})
		},
	}
	list.Flags().StringVar(&mailType, "mail-type", "", "Filter by mail type")
	list.Flags().StringVar(&mailCategory, "mail-category", "", "Filter by mail category")
	listPage = addPageFlags(list)

	find := &cobra.Command{
		Use:   "find NAME",
		Short: "Show a batch by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPochta(cmd, func(ctx context.Context, c *pochta.Client) (any, error) {
				return c.Batches().Find(ctx, args[0])
			})
		},
	}

	var ordersPage func() pochta.Page
	orders := &cobra.Command{
		Use:   "orders NAME",
		Short: "List the orders of a batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPochta(cmd, func(ctx context.Context, c *pochta.Client) (any, error) {
				return c.Batches().Orders(ctx, args[0], ordersPage())
			})
		},
	}
	ordersPage = addPageFlags(orders)

	cmd.AddCommand(list, find, orders)
	return cmd
}

// addPageFlags registers paging flags on cmd and returns a func building the
// Page from them. Flags left unset stay nil.
func addPageFlags(cmd *cobra.Command) func() pochta.Page {
	var (
		sort       string
		size, page int
	)
	cmd.Flags().StringVar(&sort, "sort", "", "Sort order (asc or desc)")
	cmd.Flags().IntVar(&size, "size", 0, "Page size")
	cmd.Flags().IntVar(&page, "page", 0, "Page number, starting at 0")

	return func() pochta.Page {
		p := pochta.Page{Sort: sort}
		if cmd.Flags().Changed("size") {
			p.Size = &size
		}
		if cmd.Flags().Changed("page") {
			p.Page = &page
		}
		return p
	}
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show account settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPochta(cmd, func(ctx context.Context, c *pochta.Client) (any, error) {
				return c.Settings().User(ctx)
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "shipping-points",
		Short: "List the shipping points available to the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPochta(cmd, func(ctx context.Context, c *pochta.Client) (any, error) {
				return c.Settings().ShippingPoints(ctx)
			})
		},
	})
	return cmd
}

// ============================================================================
// Documents
// ============================================================================

func newDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Download shipping documents",
	}

	cmd.AddCommand(
		newDocCmd("f103 BATCH", "Download the F103 list of a batch", func(ctx context.Context, d *pochta.Documents, arg string, _ *time.Time) (*pochta.Response, error) {
			return d.F103(ctx, arg)
		}),
		newDocCmd("zip BATCH", "Download every document of a batch as a zip archive", func(ctx context.Context, d *pochta.Documents, arg string, _ *time.Time) (*pochta.Response, error) {
			return d.AllDocs(ctx, arg)
		}),
		newDocCmd("completeness BATCH", "Download the completeness checking form of a batch", func(ctx context.Context, d *pochta.Documents, arg string, _ *time.Time) (*pochta.Response, error) {
			return d.CompletenessCheckingForm(ctx, arg)
		}),
		newDocCmd("f7 ORDER", "Download the F7 label of an order", func(ctx context.Context, d *pochta.Documents, arg string, date *time.Time) (*pochta.Response, error) {
			return d.F7F22(ctx, arg, pochta.FormOptions{SendingDate: date})
		}),
		newDocCmd("f112 ORDER", "Download the F112 money order form of an order", func(ctx context.Context, d *pochta.Documents, arg string, date *time.Time) (*pochta.Response, error) {
			return d.F112(ctx, arg, date)
		}),
	)
	return cmd
}

type fetchDoc func(ctx context.Context, d *pochta.Documents, arg string, sendingDate *time.Time) (*pochta.Response, error)

func newDocCmd(use, short string, fetch fetchDoc) *cobra.Command {
	var (
		output string
		date   string
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sendingDate *time.Time
			if date != "" {
				t, err := time.Parse(dateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid --sending-date: %w", err)
				}
				sendingDate = &t
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			client := a.pochtaClient()
			defer client.Close()

			res, err := fetch(cmd.Context(), client.Documents(), args[0], sendingDate)
			if err != nil {
				return err
			}
			defer res.Close()

			return saveStream(cmd.OutOrStdout(), output, res.Stream)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the document to a file instead of stdout")
	cmd.Flags().StringVar(&date, "sending-date", "", "Sending date (YYYY-MM-DD)")
	return cmd
}

func saveStream(stdout io.Writer, path string, stream io.Reader) error {
	if path == "" {
		_, err := io.Copy(stdout, stream)
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := io.Copy(f, stream); err != nil {
		f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
