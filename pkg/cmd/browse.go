package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/yeisme/videocatalog/pkg/client"
	"github.com/yeisme/videocatalog/pkg/filter"
	"github.com/yeisme/videocatalog/pkg/internal/types"
)

var (
	browseServer string
	browseQuery  string

	// browseColumns 每类资源在表格中展示的字段.
	browseColumns = map[string][]string{
		"categories":   {"id", "name", "is_active", "created_at"},
		"genres":       {"id", "name", "is_active", "created_at"},
		"cast_members": {"id", "name", "type", "created_at"},
		"videos":       {"id", "title", "year_launched", "rating", "duration", "opened"},
	}

	browseCmd = &cobra.Command{
		Use:   "browse <resource>",
		Short: "page through a resource list from the terminal",
		Long: `Interactive list browser. Commands:
  /<text>            search (applied after a short pause)
  n | p | page <n>   next, previous or given page
  per <n>            rows per page
  sort <col> [dir]   sort by column, dir is asc or desc
  set <key>=<value>  extra filter, empty value removes it
  reset              restore the initial filter
  q                  quit`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"categories", "genres", "cast_members", "videos"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return browse(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), client.New(browseServer), args[0], browseQuery)
		},
	}
)

func registerBrowseCommands() {
	browseCmd.Flags().StringVarP(&browseServer, "server", "s", "http://localhost:8080", "api server base url")
	browseCmd.Flags().StringVarP(&browseQuery, "query", "q", "", "initial query string, e.g. search=foo&page=2")

	rootCmd.AddCommand(browseCmd)
}

// browser 把终端输入转换为筛选动作，并渲染最新一次请求的结果.
type browser struct {
	resource string
	columns  []string

	outMu sync.Mutex
	out   io.Writer

	pageMu   sync.Mutex
	lastPage int

	wg     sync.WaitGroup
	ctx    context.Context
	loader *filter.Loader[types.ListResponse]
}

func browse(ctx context.Context, in io.Reader, out io.Writer, c *client.Client, resource, query string) error {
	cfg, ok := c.FilterConfig(resource)
	if !ok {
		return fmt.Errorf("unknown resource %q", resource)
	}

	b := &browser{resource: resource, columns: browseColumns[resource], out: out, lastPage: 1, ctx: ctx}
	b.loader = filter.NewLoader(c.Fetcher(resource), func(err error) {
		b.printf("error: %v\n", err)
	})

	history := filter.HistoryFunc(func(q string) { b.printf("> /%s?%s\n", resource, q) })
	m := filter.NewManager(cfg, query, history, b.load)

	defer func() {
		m.Close()
		b.loader.Close()
		b.wg.Wait()
	}()

	b.load(m.Committed())

	lines := make(chan string)
	done := make(chan struct{})

	defer close(done)

	go func() {
		defer close(lines)

		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				// 输入结束前的搜索立即生效，并等待最后一次请求渲染
				m.Flush()
				b.wg.Wait()

				return nil
			}

			a, quit, err := b.parse(m.State(), strings.TrimSpace(line))
			if quit {
				return nil
			}

			if err != nil {
				b.printf("%v\n", err)
				continue
			}

			if a != nil {
				m.Dispatch(a)
			}
		}
	}
}

func (b *browser) parse(s filter.State, line string) (filter.Action, bool, error) {
	if line == "" {
		return nil, false, nil
	}

	if strings.HasPrefix(line, "/") {
		return filter.ChangeSearch{Search: line[1:]}, false, nil
	}

	fields := strings.Fields(line)
	arg := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}

		return ""
	}

	switch fields[0] {
	case "q", "quit", "exit":
		return nil, true, nil
	case "n", "next":
		b.pageMu.Lock()
		last := b.lastPage
		b.pageMu.Unlock()

		return filter.ChangePage{Page: min(s.Pagination.Page+1, max(last, 1))}, false, nil
	case "p", "prev":
		return filter.ChangePage{Page: max(s.Pagination.Page-1, 1)}, false, nil
	case "page", "per":
		n, err := strconv.Atoi(arg(1))
		if err != nil {
			return nil, false, fmt.Errorf("%s expects a number", fields[0])
		}

		if fields[0] == "per" {
			return filter.ChangeRowsPerPage{PerPage: n}, false, nil
		}

		return filter.ChangePage{Page: n}, false, nil
	case "sort":
		if arg(1) == "" {
			return nil, false, errors.New("sort expects a column")
		}

		return filter.ChangeColumnSort{Sort: arg(1), Dir: arg(2)}, false, nil
	case "set":
		k, v, _ := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "set")), "=")
		if k = strings.TrimSpace(k); k == "" {
			return nil, false, errors.New("set expects key=value")
		}

		return filter.ChangeExtraFilter{Values: map[string]string{k: strings.TrimSpace(v)}}, false, nil
	case "reset":
		return filter.ResetFilter{}, false, nil
	}

	return nil, false, fmt.Errorf("unknown command %q", fields[0])
}

// load 在后台请求数据，被后续 load 取代的请求不渲染.
func (b *browser) load(s filter.State) {
	b.wg.Add(1)

	go func() {
		defer b.wg.Done()

		resp, err := b.loader.Load(b.ctx, s)
		if err != nil {
			return
		}

		b.pageMu.Lock()
		b.lastPage = resp.Meta.LastPage
		b.pageMu.Unlock()

		b.render(resp)
	}()
}

func (b *browser) render(resp types.ListResponse) {
	b.outMu.Lock()
	defer b.outMu.Unlock()

	table := tablewriter.NewWriter(b.out)
	table.SetHeader(b.columns)
	table.SetAutoWrapText(false)

	rows, _ := resp.Data.([]any)
	for _, r := range rows {
		obj, _ := r.(map[string]any)
		row := make([]string, len(b.columns))

		for i, col := range b.columns {
			row[i] = cell(obj[col])
		}

		table.Append(row)
	}

	table.Render()

	meta := resp.Meta
	fmt.Fprintf(b.out, "%s page %d/%d, %d total\n", b.resource, meta.CurrentPage, max(meta.LastPage, 1), meta.Total)
}

func (b *browser) printf(format string, args ...any) {
	b.outMu.Lock()
	defer b.outMu.Unlock()

	fmt.Fprintf(b.out, format, args...)
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
