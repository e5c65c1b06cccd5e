package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
}

func TestObserve(t *testing.T) {
	ok := testutil.ToFloat64(GatewayOperations.WithLabelValues("spawn", StatusOk))
	failed := testutil.ToFloat64(GatewayOperations.WithLabelValues("spawn", StatusError))

	ObserveGateway("spawn", time.Now(), nil)
	ObserveGateway("spawn", time.Now(), xerrors.New("boom"))
	ObserveGateway("spawn", time.Now(), nil)

	require.Equal(t, ok+2, testutil.ToFloat64(GatewayOperations.WithLabelValues("spawn", StatusOk)))
	require.Equal(t, failed+1, testutil.ToFloat64(GatewayOperations.WithLabelValues("spawn", StatusError)))

	requests := testutil.ToFloat64(GQLRequests.WithLabelValues("single", StatusOk))
	ObserveGQL("single", time.Now(), nil)
	require.Equal(t, requests+1, testutil.ToFloat64(GQLRequests.WithLabelValues("single", StatusOk)))
}
