package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegisterCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterCollectors(reg)

	IssueOperations.WithLabelValues("create", "ok").Inc()
	require.Equal(t, 1, testutil.CollectAndCount(IssueOperations, "issuetracker_issue_operations_total"))

	// a second registration on the same registry must fail
	require.Panics(t, func() { RegisterCollectors(reg) })
}
