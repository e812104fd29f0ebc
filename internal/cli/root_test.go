package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/leapstack-labs/asql/internal/cli/output"
	"github.com/leapstack-labs/asql/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and stdin from an empty
// working directory so no asql.yaml is picked up.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRoot_TablesJSON(t *testing.T) {
	out, _, err := run(t, "", "tables", "-o", "json")
	require.NoError(t, err)

	var tables []output.TableOutput
	require.NoError(t, json.Unmarshal([]byte(out), &tables))
	require.Len(t, tables, 3)
	assert.Equal(t, "EMPLOYEES", tables[0].Name)
}

func TestRoot_FileCatalog(t *testing.T) {
	schema := testutil.SetupTestCatalog(t)

	out, _, err := run(t, "", "--catalog", "file", "--catalog-path", schema, "tables", "-o", "json")
	require.NoError(t, err)

	var tables []output.TableOutput
	require.NoError(t, json.Unmarshal([]byte(out), &tables))
	names := make([]string, 0, len(tables))
	for _, tbl := range tables {
		names = append(names, tbl.Name)
	}
	assert.Equal(t, []string{"CUSTOMERS", "ORDERS"}, names)
}

func TestRoot_UnknownCatalog(t *testing.T) {
	_, _, err := run(t, "", "--catalog", "mongodb", "tables")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown catalog type "mongodb"`)
}

func TestRoot_DefaultRunsShell(t *testing.T) {
	out, _, err := run(t, "select name from employees\n", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "OK SELECT NAME FROM EMPLOYEES")
}

func TestRoot_CheckFailureIsError(t *testing.T) {
	_, _, err := run(t, "SELECT NOPE FROM EMPLOYEES\n", "check", "-o", "json")
	require.Error(t, err)
	assert.Equal(t, "1 of 1 statements failed", err.Error())
}

func TestRoot_Version(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "asql v"+Version)
}

func TestRoot_Completion(t *testing.T) {
	out, _, err := run(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "asql")
}
