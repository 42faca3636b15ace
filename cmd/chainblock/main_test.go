package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/example/chainblock/pkg/chainblock"
	"github.com/example/chainblock/pkg/transaction"
)

const ledgerFixture = `
[log]
level = "error"

[[transactions]]
id = 0
status = "successful"
from = "Kaloyan"
to = "Peter"
amount = 55.60

[[transactions]]
id = 1
status = "aborted"
from = "Ivan"
to = "Pesho"
amount = 155.60

[[transactions]]
id = 2
status = "successful"
from = "Peter"
to = "Alex"
amount = 255.60

[[transactions]]
id = 3
status = "successful"
from = "Kaloyan"
to = "Kriss"
amount = 100.60

[[transactions]]
id = 4
status = "failed"
from = "Martin"
to = "Ani"
amount = 55.60
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "ledger.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(ledgerFixture), 0644))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func runJSON(t *testing.T, args ...string) []int {
	t.Helper()
	out, err := run(t, append(args, "--output", "json")...)
	require.NoError(t, err)

	var txs []transaction.Transaction
	require.NoError(t, json.Unmarshal([]byte(out), &txs))
	ids := make([]int, 0, len(txs))
	for _, tx := range txs {
		ids = append(ids, tx.ID)
	}
	return ids
}

func TestRootCmd(t *testing.T) {
	rootCmd := newRootCmd()
	assert.Equal(t, "chainblock", rootCmd.Use)
	assert.Contains(t, rootCmd.Short, "in-memory ledger")
	assert.Contains(t, rootCmd.Long, "Chainblock")
}

func TestQueries(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []int
	}{
		{"list", []string{"list"}, []int{0, 1, 2, 3, 4}},
		{"ranked", []string{"ranked"}, []int{2, 1, 3, 0, 4}},
		{"get", []string{"get", "3"}, []int{3}},
		{"status", []string{"status", "successful"}, []int{2, 3, 0}},
		{"status with max", []string{"status", "Successful", "--max", "100.60"}, []int{3, 0}},
		{"sender", []string{"sender", "Kaloyan"}, []int{3, 0}},
		{"sender with min", []string{"sender", "Kaloyan", "--min", "55.60"}, []int{3}},
		{"receiver", []string{"receiver", "Peter"}, []int{0}},
		{"receiver in range", []string{"receiver", "Kriss", "--lo", "100", "--hi", "200"}, []int{3}},
		{"range", []string{"range", "--lo", "55.60", "--hi", "155.60"}, []int{1, 3, 0, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, runJSON(t, tt.args...))
		})
	}
}

func TestSenders(t *testing.T) {
	out, err := run(t, "senders", "successful")
	require.NoError(t, err)
	assert.Equal(t, "Kaloyan\nKaloyan\nPeter\n", out)
}

func TestReceiversJSON(t *testing.T) {
	out, err := run(t, "receivers", "successful", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `["Peter","Alex","Kriss"]`, out)
}

func TestTableOutput(t *testing.T) {
	out, err := run(t, "get", "1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"ID", "STATUS", "FROM", "TO", "AMOUNT"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1", "aborted", "Ivan", "Pesho", "155.60"}, strings.Fields(lines[1]))
}

func TestErrors(t *testing.T) {
	_, err := run(t, "get", "150")
	assert.ErrorIs(t, err, chainblock.ErrNotFound)

	_, err = run(t, "status", "aborted", "--max", "10")
	assert.ErrorIs(t, err, chainblock.ErrEmptyResult)

	_, err = run(t, "senders", "pending")
	assert.ErrorIs(t, err, transaction.ErrUnknownStatus)

	_, err = run(t, "get", "abc")
	assert.ErrorContains(t, err, "invalid transaction id")

	_, err = run(t, "list", "--output", "xml")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestMissingConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.toml"), "list"})
	err := cmd.Execute()
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "55.60", formatAmount(55.6))
	assert.Equal(t, "0.00", formatAmount(0))
	assert.Equal(t, "1000.10", formatAmount(1000.1))
}

func TestRangeRequiresBounds(t *testing.T) {
	_, err := run(t, "range")
	assert.ErrorContains(t, err, "required flag")

	flags := newRootCmd()
	rangeCmd, _, err := flags.Find([]string{"range"})
	require.NoError(t, err)
	for _, name := range []string{"lo", "hi"} {
		f := rangeCmd.Flags().Lookup(name)
		require.NotNil(t, f)
		assert.Equal(t, []string{"true"}, f.Annotations[cobra.BashCompOneRequiredFlag])
	}
}
