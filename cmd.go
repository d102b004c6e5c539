package main

import (
	goflag "flag"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
	"q.log/lpsolve/crosscheck"
	"q.log/lpsolve/instance"
	"q.log/lpsolve/interior"
	"q.log/lpsolve/model"
	"q.log/lpsolve/simplex"
)

// klogLogger sends solver traces to klog at a fixed verbosity.
type klogLogger struct {
	level klog.Level
}

func (l klogLogger) Print(v ...interface{}) {
	klog.V(l.level).Info(v...)
}

// traceLevel is the klog verbosity of per-iteration solver output.
const traceLevel = 4

type options struct {
	v *viper.Viper
}

func (o *options) accuracy() float64 { return o.v.GetFloat64("accuracy") }
func (o *options) maxIter() int       { return o.v.GetInt("max-iter") }
func (o *options) precision() int     { return o.v.GetInt("precision") }
func (o *options) alpha() float64     { return o.v.GetFloat64("alpha") }

// alphas reads a float list given as a flag ("[0.5,0.9]"), an environment
// variable ("0.5,0.9") or a config file sequence.
func (o *options) alphas() ([]float64, error) {
	var items []interface{}
	switch v := o.v.Get("alphas").(type) {
	case nil:
		return nil, nil
	case []float64:
		return v, nil
	case []interface{}:
		items = v
	case string:
		for _, f := range strings.FieldsFunc(strings.Trim(v, "[]"), func(r rune) bool { return r == ',' || r == ' ' }) {
			items = append(items, f)
		}
	default:
		return nil, errors.Wrapf(model.ErrInvalidParameter, "alphas %v", v)
	}
	out := make([]float64, len(items))
	for i, item := range items {
		f, err := cast.ToFloat64E(item)
		if err != nil {
			return nil, errors.Wrapf(model.ErrInvalidParameter, "alphas: %v", err)
		}
		out[i] = f
	}
	return out, nil
}

func newRootCommand() *cobra.Command {
	o := &options{v: viper.New()}

	cmd := &cobra.Command{
		Use:          "lpsolve",
		Short:        "Solve linear programs with the simplex and affine scaling methods",
		SilenceUsage: true,
	}
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return o.load(cmd)
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "optional config file (yaml, json or toml) with flag defaults")
	flags.Float64("accuracy", simplex.DefaultAccuracy, "zero band for the simplex method, step threshold for the interior method")
	flags.Int("max-iter", simplex.DefaultMaxIterations, "maximum number of iterations")
	flags.Int("precision", 4, "number of decimals in the output")

	fs := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(fs)
	flags.AddGoFlagSet(fs)

	cmd.AddCommand(
		newShowCommand(o),
		newSimplexCommand(o),
		newInteriorCommand(o),
		newCompareCommand(o),
	)
	return cmd
}

// load binds flags, LPSOLVE_* environment variables and the optional
// config file, in increasing order of precedence: file, environment, flags.
func (o *options) load(cmd *cobra.Command) error {
	o.v.SetEnvPrefix("lpsolve")
	o.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	o.v.AutomaticEnv()
	if err := o.v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "binding flags")
	}
	if file := o.v.GetString("config"); file != "" {
		o.v.SetConfigFile(file)
		if err := o.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config %s", file)
		}
	}
	if o.precision() < 0 {
		return errors.Wrapf(model.ErrInvalidParameter, "precision %d", o.precision())
	}
	return nil
}

// readInstance reads a problem file, or standard input for "-".
func readInstance(cmd *cobra.Command, filename string) (*instance.Instance, error) {
	if filename == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(err, "reading standard input")
		}
		return instance.Parse(data)
	}
	return instance.NewReader(filename).Read()
}

func newShowCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Print a problem in algebraic and matrix form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := readInstance(cmd, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if err := inst.Problem.Fprint(w, o.precision()); err != nil {
				return err
			}
			inst.Problem.FprintMatrices(w)
			return nil
		},
	}
}

func newSimplexCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "simplex FILE",
		Short: "Solve with the tableau simplex method",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := readInstance(cmd, args[0])
			if err != nil {
				return err
			}
			sol, err := simplex.Solve(inst.Problem,
				simplex.WithAccuracy(o.accuracy()),
				simplex.WithMaxIterations(o.maxIter()),
				simplex.WithLogger(klogLogger{level: traceLevel}),
			)
			if err != nil {
				return err
			}
			klog.V(1).Infof("simplex: optimal after %d pivots", sol.Iterations)
			return sol.Fprint(cmd.OutOrStdout(), o.precision())
		},
	}
}

func newInteriorCommand(o *options) *cobra.Command {
	var x0 []float64

	cmd := &cobra.Command{
		Use:   "interior FILE",
		Short: "Solve with the affine scaling interior-point method",
		Long: `Solve with the affine scaling interior-point method.

Slack variables are added to every constraint. The starting point is taken
from --x0, then from the x0 entry of the problem file, and is derived
automatically when neither is given. A starting point with one entry per
decision variable is completed with the matching slacks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := readInstance(cmd, args[0])
			if err != nil {
				return err
			}
			start := x0
			if len(start) == 0 {
				start = inst.X0
			}
			start, err = startingPoint(inst.Problem, start)
			if err != nil {
				return err
			}
			sol, err := interior.Solve(inst.Problem.WithSlack(), start,
				interior.WithAccuracy(o.accuracy()),
				interior.WithAlpha(o.alpha()),
				interior.WithMaxIterations(o.maxIter()),
				interior.WithLogger(klogLogger{level: traceLevel}),
			)
			if err != nil {
				return err
			}
			klog.V(1).Infof("interior: converged after %d iterations", sol.Iterations)
			return sol.Fprint(cmd.OutOrStdout(), o.precision())
		},
	}
	cmd.Flags().Float64("alpha", interior.DefaultAlpha, "step fraction in (0, 1)")
	cmd.Flags().Float64SliceVar(&x0, "x0", nil, "strictly positive starting point, comma separated")
	return cmd
}

// startingPoint completes or derives the interior starting point over the
// decision and slack variables of p.
func startingPoint(p *model.Problem, x0 []float64) ([]float64, error) {
	switch len(x0) {
	case 0:
		return crosscheck.StartingPoint(p)
	case p.NumCols + p.NumRows:
		return x0, nil
	case p.NumCols:
		start := append(append([]float64(nil), x0...), make([]float64, p.NumRows)...)
		b := p.RHS()
		for i := 0; i < p.NumRows; i++ {
			s := b[i]
			for j, xj := range x0 {
				s -= p.A.At(i, j) * xj
			}
			start[p.NumCols+i] = s
		}
		return start, nil
	}
	return nil, errors.Wrapf(model.ErrDimensionMismatch, "starting point has %d entries, want %d or %d", len(x0), p.NumCols, p.NumCols+p.NumRows)
}

func newCompareCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare FILE",
		Short: "Solve with every method and check that the optimal values agree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := readInstance(cmd, args[0])
			if err != nil {
				return err
			}
			var start []float64
			if len(inst.X0) != 0 {
				if start, err = startingPoint(inst.Problem, inst.X0); err != nil {
					return err
				}
			}
			alphas, err := o.alphas()
			if err != nil {
				return err
			}
			report, err := crosscheck.Compare(inst.Problem, start, crosscheck.Options{
				Accuracy:      o.accuracy(),
				Alphas:        alphas,
				MaxIterations: o.maxIter(),
				Logger:        klogLogger{level: traceLevel},
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, out := range report.Outcomes {
				fmt.Fprintln(w, out)
			}
			if !report.Agree {
				return errors.New("methods disagree")
			}
			fmt.Fprintln(w, "methods agree")
			return nil
		},
	}
	cmd.Flags().Float64Slice("alphas", []float64{0.5, 0.9}, "interior step fractions to try")
	return cmd
}
