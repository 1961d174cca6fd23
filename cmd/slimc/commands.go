package main

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/raymyers/slimexpr/pkg/config"
	"github.com/raymyers/slimexpr/pkg/expr"
	"github.com/raymyers/slimexpr/pkg/exprdoc"
	"github.com/raymyers/slimexpr/pkg/exprgen"
	"github.com/raymyers/slimexpr/pkg/members"
	"github.com/raymyers/slimexpr/pkg/slim"
	"github.com/raymyers/slimexpr/pkg/slimgen"
	"github.com/raymyers/slimexpr/pkg/typeslim"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// session wires the document builder and both converters over one
// registry and member space.
type session struct {
	cfg     *config.Config
	builder *exprdoc.Builder
	narrow  *slimgen.Converter
	widen   *exprgen.Converter
}

func newSession(cfg *config.Config) (*session, error) {
	r, err := newRegistry()
	if err != nil {
		return nil, err
	}
	aliases, err := resolveAliases(r, cfg.Aliases)
	if err != nil {
		return nil, err
	}
	b, err := exprdoc.NewBuilder(r, aliases)
	if err != nil {
		return nil, err
	}
	ts, err := typeslim.NewTypeSpace(r)
	if err != nil {
		return nil, err
	}
	space, err := members.NewSpace(ts)
	if err != nil {
		return nil, err
	}
	narrow, err := slimgen.NewConverter(space, slim.DefaultFactory{})
	if err != nil {
		return nil, err
	}
	widen, err := exprgen.NewConverter(space, expr.DefaultFactory{})
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, builder: b, narrow: narrow, widen: widen}, nil
}

// load reads and builds a tree document
func (s *session) load(filename string) (expr.Expr, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	doc, err := exprdoc.Decode(data)
	if err != nil {
		return nil, err
	}
	return s.builder.Build(doc)
}

// toSlim narrows e, rejecting free parameters in strict mode
func (s *session) toSlim(e expr.Expr) (slim.ExpressionSlim, error) {
	n, err := s.narrow.Convert(e)
	if err != nil {
		return nil, err
	}
	if s.cfg.Strict {
		free, err := slim.FreeVariables(n)
		if err != nil {
			return nil, err
		}
		if len(free) > 0 {
			names := make([]string, len(free))
			for i, p := range free {
				names[i] = p.Name()
			}
			return nil, fmt.Errorf("%w: %s", ErrFreeVariables, strings.Join(names, ", "))
		}
	}
	return n, nil
}

func (s *session) print(w io.Writer, n slim.ExpressionSlim) error {
	p := slim.NewPrinter(w)
	if s.cfg.Format == config.FormatTree {
		p = slim.NewTreePrinter(w, s.cfg.Indent)
	}
	return p.Print(n)
}

// setup loads the configuration and creates a session, reporting failures
func setup(cmd *cobra.Command, opts *options, errOut io.Writer) (*session, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		printError(errOut, "Config", err)
		return nil, err
	}
	s, err := newSession(cfg)
	if err != nil {
		printError(errOut, "Config", err)
		return nil, err
	}
	return s, nil
}

func newNarrowCmd(opts *options, out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "narrow FILE",
		Short: "Print the slim tree of a tree document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := setup(cmd, opts, errOut)
			if err != nil {
				return err
			}
			e, err := s.load(args[0])
			if err != nil {
				printError(errOut, "Document", err)
				return err
			}
			n, err := s.toSlim(e)
			if err != nil {
				printError(errOut, "Narrow", err)
				return err
			}
			return s.print(out, n)
		},
	}
}

// roundTrip narrows e, widens the result and narrows again. The second
// narrowing must print like the first and be structurally equal to it.
func (s *session) roundTrip(e expr.Expr) (first, second slim.ExpressionSlim, err error) {
	if first, err = s.toSlim(e); err != nil {
		return nil, nil, err
	}
	back, err := s.widen.Convert(first)
	if err != nil {
		return nil, nil, fmt.Errorf("widen: %w", err)
	}
	if second, err = s.toSlim(back); err != nil {
		return nil, nil, err
	}
	if first.String() != second.String() || !slim.DeepEqual(first, second) {
		return first, second, ErrUnstable
	}
	return first, second, nil
}

func newRoundtripCmd(opts *options, out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip FILE",
		Short: "Check that widening and narrowing again reproduces the slim tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := setup(cmd, opts, errOut)
			if err != nil {
				return err
			}
			e, err := s.load(args[0])
			if err != nil {
				printError(errOut, "Document", err)
				return err
			}
			first, second, err := s.roundTrip(e)
			if err != nil {
				printError(errOut, "Roundtrip", err)
				if second != nil {
					printWarning(errOut, "Before", first.String())
					printWarning(errOut, "After", second.String())
				}
				return err
			}
			if err := s.print(out, second); err != nil {
				return err
			}
			printSuccess(errOut, "Roundtrip", args[0]+" is stable")
			return nil
		},
	}
}

// parseArg decodes a command line argument as a YAML scalar of type t
func parseArg(arg string, t reflect.Type) (any, error) {
	v := reflect.New(t)
	if err := yaml.Unmarshal([]byte(arg), v.Interface()); err != nil {
		return nil, fmt.Errorf("argument %q: %w", arg, err)
	}
	return v.Elem().Interface(), nil
}

func newEvalCmd(opts *options, out, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval FILE [ARG...]",
		Short: "Evaluate a lambda document after a round trip through slim",
		Long: `Evaluate a lambda document after a round trip through slim.

Flags go before FILE. Everything after FILE is passed to the lambda, so
negative numbers such as -3 are read as arguments.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := setup(cmd, opts, errOut)
			if err != nil {
				return err
			}
			e, err := s.load(args[0])
			if err != nil {
				printError(errOut, "Document", err)
				return err
			}
			if _, ok := e.(*expr.LambdaExpr); !ok {
				err := fmt.Errorf("%s: document root is %s, not a Lambda", args[0], e.NodeType())
				printError(errOut, "Eval", err)
				return err
			}
			first, err := s.toSlim(e)
			if err != nil {
				printError(errOut, "Narrow", err)
				return err
			}
			l, err := s.widen.ConvertLambda(first.(*slim.LambdaExpressionSlim))
			if err != nil {
				printError(errOut, "Widen", err)
				return err
			}
			if len(args)-1 != len(l.Params) {
				err := fmt.Errorf("lambda takes %d arguments, got %d", len(l.Params), len(args)-1)
				printError(errOut, "Eval", err)
				return err
			}
			values := make([]any, len(l.Params))
			for i, p := range l.Params {
				if values[i], err = parseArg(args[i+1], p.T); err != nil {
					printError(errOut, "Eval", err)
					return err
				}
			}
			fn, err := expr.Compile(l)
			if err != nil {
				printError(errOut, "Eval", err)
				return err
			}
			result, err := fn(values...)
			if err != nil {
				printError(errOut, "Eval", err)
				return err
			}
			if result == nil {
				fmt.Fprintln(out, "null")
				return nil
			}
			fmt.Fprintln(out, result)
			return nil
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}
