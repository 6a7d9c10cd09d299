package panel

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Apurer/counter-panel/internal/domains/catalog/adapters/imagefile"
	catalogdomain "github.com/Apurer/counter-panel/internal/domains/catalog/domain"
	orderdomain "github.com/Apurer/counter-panel/internal/domains/orders/domain"
	panelcore "github.com/Apurer/counter-panel/internal/panel"
	"github.com/Apurer/counter-panel/internal/shared/ident"
	"github.com/Apurer/counter-panel/internal/shared/notify"
)

const helpText = `commands:
  tab orders|catalog          switch section
  category <name>             filter the catalog (Tutte, Panini, Fritti, Bevande, Menu)
  advance <id>                move an order to its next status
  status <id> <status>        set an order status
  toggle <id>                 flip product availability
  add <name> | <price> | <category> [| <image path>]
  retry | discard             resubmit or drop the refused product
  delete <id>                 remove a product (asks for confirmation)
  refresh | help | quit
`

var errQuit = errors.New("quit")

// Terminal is a line-oriented panel surface: it prints a frame on every
// change and reads operator commands, one per line.
type Terminal struct {
	out     io.Writer
	encoder imagefile.Encoder

	outMu sync.Mutex
	lines chan string
}

// NewTerminal reads commands from in and writes frames and notices to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{
		out:     out,
		encoder: imagefile.Encoder{MaxBytes: imagefile.DefaultMaxBytes},
		lines:   make(chan string),
	}
	go t.read(in)
	return t
}

func (t *Terminal) read(in io.Reader) {
	defer close(t.lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		t.lines <- scanner.Text()
	}
}

// Notify prints an operator notice.
func (t *Terminal) Notify(_ context.Context, notice notify.Notice) {
	switch {
	case notice.Level == notify.LevelError && notice.Err != nil:
		t.printf("! %s: %v\n", notice.Message, notice.Err)
	case notice.Level == notify.LevelError:
		t.printf("! %s\n", notice.Message)
	default:
		t.printf("* %s\n", notice.Message)
	}
}

// ConfirmDelete asks for y/N on the next input line. Anything but y or si
// declines.
func (t *Terminal) ConfirmDelete(ctx context.Context, product catalogdomain.Product) (bool, error) {
	name := product.Name
	if name == "" {
		name = product.ID.String()
	}
	t.printf("Eliminare %q? [y/N] ", name)
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case line, ok := <-t.lines:
		if !ok {
			return false, io.EOF
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes" || answer == "s" || answer == "si", nil
	}
}

// Run activates the coordinator and processes commands until quit, end of
// input or ctx cancellation.
func (t *Terminal) Run(ctx context.Context, coord *panelcore.Coordinator) error {
	cancel := coord.OnChange(t.render)
	defer cancel()
	coord.Activate(ctx)
	defer coord.Deactivate()
	t.render(coord.View())

	for {
		t.printf("> ")
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-t.lines:
			if !ok {
				return nil
			}
			if err := t.execute(ctx, coord, line); errors.Is(err, errQuit) {
				return nil
			} else if err != nil {
				t.printf("? %v\n", err)
			}
		}
	}
}

func (t *Terminal) execute(ctx context.Context, coord *panelcore.Coordinator, line string) error {
	cmd, args, _ := strings.Cut(strings.TrimSpace(line), " ")
	args = strings.TrimSpace(args)
	switch strings.ToLower(cmd) {
	case "":
		return nil
	case "help", "?":
		t.printf("%s", helpText)
	case "quit", "exit", "q":
		return errQuit
	case "refresh":
		coord.Refresh(ctx)
	case "tab":
		tab, err := panelcore.ParseTab(args)
		if err != nil {
			return err
		}
		return coord.SelectTab(tab)
	case "category", "cat":
		category, err := catalogdomain.ParseCategory(args)
		if err != nil {
			return err
		}
		return coord.SelectCategory(category)
	case "advance":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		// failures already reach the operator as notices
		_, _ = coord.Advance(ctx, id)
	case "status":
		rawID, rawStatus, _ := strings.Cut(args, " ")
		id, err := parseID(rawID)
		if err != nil {
			return err
		}
		status, err := orderdomain.ParseStatus(rawStatus)
		if err != nil {
			return err
		}
		_ = coord.ChangeStatus(ctx, id, status)
	case "toggle":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		_, _ = coord.ToggleAvailability(ctx, id)
	case "add":
		draft, err := t.parseDraft(args)
		if err != nil {
			return err
		}
		_, _ = coord.SaveProduct(ctx, draft)
	case "retry":
		if _, err := coord.RetryDraft(ctx); errors.Is(err, panelcore.ErrNoPendingDraft) {
			return err
		}
	case "discard":
		coord.DiscardDraft()
	case "delete", "rm":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		_ = coord.DeleteProduct(ctx, id)
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return nil
}

// parseDraft reads "name | price | category [| image path]". Name and price
// are not checked here; the remote store decides.
func (t *Terminal) parseDraft(args string) (catalogdomain.Draft, error) {
	fields := strings.Split(args, "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) < 3 || len(fields) > 4 {
		return catalogdomain.Draft{}, errors.New("usage: add <name> | <price> | <category> [| <image path>]")
	}
	draft := catalogdomain.Draft{Name: fields[0]}
	if fields[1] != "" {
		price, err := decimal.NewFromString(strings.ReplaceAll(fields[1], ",", "."))
		if err != nil {
			return catalogdomain.Draft{}, fmt.Errorf("price %q: %w", fields[1], err)
		}
		draft.Price = price
	}
	if fields[2] != "" {
		category, err := catalogdomain.ParseCategory(fields[2])
		if err != nil {
			return catalogdomain.Draft{}, err
		}
		draft.Category = category
	}
	if len(fields) == 4 && fields[3] != "" {
		image, err := t.encoder.EncodeFile(fields[3])
		if err != nil {
			return catalogdomain.Draft{}, err
		}
		draft.Image = image
	}
	return draft, nil
}

func parseID(raw string) (ident.ID, error) {
	return ident.Parse(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
}

func (t *Terminal) render(view panelcore.View) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n== %s ==\n", tabTitle(view))
	switch view.Tab {
	case panelcore.TabCatalog:
		writeCatalog(&b, view)
	default:
		writeOrders(&b, view)
	}
	t.printf("%s", b.String())
}

func tabTitle(view panelcore.View) string {
	if view.Tab == panelcore.TabCatalog {
		return fmt.Sprintf("Catalogo [%s] (%d)", view.Category, len(view.Products))
	}
	return fmt.Sprintf("Ordini (%d)", view.OrderCount())
}

func writeOrders(b *strings.Builder, view panelcore.View) {
	if view.Orders.LastError != nil {
		fmt.Fprintf(b, "  (dati non aggiornati: %v)\n", view.Orders.LastError)
	}
	for _, lane := range view.Lanes {
		fmt.Fprintf(b, "-- %s (%d)\n", lane.Status.Label(), len(lane.Orders))
		for _, order := range lane.Orders {
			header := "#" + order.ID.String()
			if order.CustomerName != "" {
				header += " " + order.CustomerName
			}
			if !order.CreatedAt.IsZero() {
				header += " " + order.CreatedAt.Local().Format("15:04")
			}
			fmt.Fprintf(b, "  %s  € %s\n", header, order.AmountDue().StringFixed(2))
			for _, item := range order.Items {
				fmt.Fprintf(b, "     %dx %s", item.Quantity, item.Name)
				if item.Note != "" {
					fmt.Fprintf(b, " (%s)", item.Note)
				}
				b.WriteString("\n")
			}
		}
	}
}

func writeCatalog(b *strings.Builder, view panelcore.View) {
	if view.Catalog.LastError != nil {
		fmt.Fprintf(b, "  (dati non aggiornati: %v)\n", view.Catalog.LastError)
	}
	for _, product := range view.Products {
		state := "disponibile"
		if !product.Available {
			state = "esaurito"
		}
		fmt.Fprintf(b, "  [%s] %s  € %s  %s  %s\n", product.ID, product.Name, product.Price.StringFixed(2), product.Category, state)
	}
	if view.PendingDraft != nil {
		fmt.Fprintf(b, "  bozza non salvata: %q (retry | discard)\n", view.PendingDraft.Name)
	}
}

func (t *Terminal) printf(format string, args ...any) {
	t.outMu.Lock()
	defer t.outMu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}
