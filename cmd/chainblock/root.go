package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/chainblock/internal/config"
	"github.com/example/chainblock/internal/logging"
	"github.com/example/chainblock/pkg/chainblock"
	"github.com/example/chainblock/pkg/transaction"
)

// app carries the state shared by every subcommand once the ledger is loaded
type app struct {
	configPath string
	output     string
	logger     *zap.Logger
	ledger     *chainblock.Chainblock
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "chainblock",
		Short: "Query an in-memory ledger of transactions",
		Long: `Chainblock loads the transactions listed in a TOML ledger file into an
in-memory store and runs a single filtered or sorted query against it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "chainblock.toml", "path to the ledger file")
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", outputTable, "output format: table or json")

	rootCmd.AddCommand(
		a.listCmd(),
		a.rankedCmd(),
		a.getCmd(),
		a.statusCmd(),
		a.partiesCmd("senders", "List senders of transactions with a status, most frequent first", (*chainblock.Chainblock).SendersByStatus),
		a.partiesCmd("receivers", "List receivers of transactions with a status, most frequent first", (*chainblock.Chainblock).ReceiversByStatus),
		a.senderCmd(),
		a.receiverCmd(),
		a.rangeCmd(),
	)

	return rootCmd
}

func (a *app) load() error {
	if a.output != outputTable && a.output != outputJSON {
		return fmt.Errorf("unsupported output format %q", a.output)
	}

	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	a.logger, err = logging.New(cfg.Log)
	if err != nil {
		return err
	}

	a.ledger = chainblock.New(chainblock.WithLogger(a.logger))
	for _, tx := range cfg.Transactions {
		a.ledger.Add(tx)
	}
	a.logger.Debug("ledger loaded",
		zap.String("config", a.configPath),
		zap.Int("entries", a.ledger.Count()),
	)
	return nil
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all transactions in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printTransactions(cmd, a.ledger.Transactions())
		},
	}
}

func (a *app) rankedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ranked",
		Short: "List all transactions by amount descending, then by ID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printTransactions(cmd, a.ledger.AllByAmountDescThenID())
		},
	}
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show a single transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid transaction id %q: %w", args[0], err)
			}
			tx, err := a.ledger.GetByID(id)
			if err != nil {
				return err
			}
			return a.printTransactions(cmd, []transaction.Transaction{tx})
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	var maxAmount float64

	cmd := &cobra.Command{
		Use:   "status STATUS",
		Short: "List transactions with a status by amount descending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := transaction.ParseStatus(args[0])
			if err != nil {
				return err
			}

			var txs []transaction.Transaction
			if cmd.Flags().Changed("max") {
				txs, err = a.ledger.ByStatusAndMaxAmount(status, maxAmount)
			} else {
				txs, err = a.ledger.ByStatus(status)
			}
			if err != nil {
				return err
			}
			return a.printTransactions(cmd, txs)
		},
	}
	cmd.Flags().Float64Var(&maxAmount, "max", 0, "only include amounts up to and including this value")
	return cmd
}

func (a *app) partiesCmd(use, short string, query func(*chainblock.Chainblock, transaction.Status) ([]string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " STATUS",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := transaction.ParseStatus(args[0])
			if err != nil {
				return err
			}
			names, err := query(a.ledger, status)
			if err != nil {
				return err
			}
			return a.printNames(cmd, names)
		},
	}
}

func (a *app) senderCmd() *cobra.Command {
	var minAmount float64

	cmd := &cobra.Command{
		Use:   "sender NAME",
		Short: "List transactions sent by NAME by amount descending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				txs []transaction.Transaction
				err error
			)
			if cmd.Flags().Changed("min") {
				txs, err = a.ledger.BySenderAndMinAmount(args[0], minAmount)
			} else {
				txs, err = a.ledger.BySender(args[0])
			}
			if err != nil {
				return err
			}
			return a.printTransactions(cmd, txs)
		},
	}
	cmd.Flags().Float64Var(&minAmount, "min", 0, "only include amounts strictly greater than this value")
	return cmd
}

func (a *app) receiverCmd() *cobra.Command {
	var lo, hi float64

	cmd := &cobra.Command{
		Use:   "receiver NAME",
		Short: "List transactions received by NAME by amount descending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				txs []transaction.Transaction
				err error
			)
			if cmd.Flags().Changed("lo") || cmd.Flags().Changed("hi") {
				txs, err = a.ledger.ByReceiverAndAmountRange(args[0], lo, hi)
			} else {
				txs, err = a.ledger.ByReceiver(args[0])
			}
			if err != nil {
				return err
			}
			return a.printTransactions(cmd, txs)
		},
	}
	cmd.Flags().Float64Var(&lo, "lo", 0, "inclusive lower amount bound")
	cmd.Flags().Float64Var(&hi, "hi", 0, "exclusive upper amount bound")
	cmd.MarkFlagsRequiredTogether("lo", "hi")
	return cmd
}

func (a *app) rangeCmd() *cobra.Command {
	var lo, hi float64

	cmd := &cobra.Command{
		Use:   "range",
		Short: "List transactions with lo <= amount <= hi by amount descending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			txs, err := a.ledger.InAmountRange(lo, hi)
			if err != nil {
				return err
			}
			return a.printTransactions(cmd, txs)
		},
	}
	cmd.Flags().Float64Var(&lo, "lo", 0, "inclusive lower amount bound")
	cmd.Flags().Float64Var(&hi, "hi", 0, "inclusive upper amount bound")
	cobra.CheckErr(cmd.MarkFlagRequired("lo"))
	cobra.CheckErr(cmd.MarkFlagRequired("hi"))
	return cmd
}
