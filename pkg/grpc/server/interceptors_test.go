package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func TestLoggingInterceptor(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	interceptor := LoggingInterceptor(zap.New(core))
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/TestMethod"}

	t.Run("successful request", func(t *testing.T) {
		ctx := peer.NewContext(context.Background(), &peer.Peer{
			Addr: &net.TCPAddr{IP: net.IPv4(10, 0, 0, 7), Port: 4242},
		})

		resp, err := interceptor(ctx, "test request", info, func(ctx context.Context, req any) (any, error) {
			return "success", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "success", resp)

		done := logs.FilterMessage("gRPC request completed").All()
		require.Len(t, done, 1)
		assert.Equal(t, "10.0.0.7:4242", done[0].ContextMap()["client_addr"])
	})

	t.Run("client error is logged as warning", func(t *testing.T) {
		_, err := interceptor(context.Background(), "test request", info, func(ctx context.Context, req any) (any, error) {
			return nil, status.Error(codes.InvalidArgument, "test error")
		})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))

		rejected := logs.FilterMessage("gRPC request rejected").All()
		require.Len(t, rejected, 1)
		assert.Equal(t, zapcore.WarnLevel, rejected[0].Level)
		assert.Equal(t, "unknown", rejected[0].ContextMap()["client_addr"])
	})

	t.Run("server error is logged as error", func(t *testing.T) {
		_, err := interceptor(context.Background(), "test request", info, func(ctx context.Context, req any) (any, error) {
			return nil, status.Error(codes.Internal, "database error")
		})
		assert.Equal(t, codes.Internal, status.Code(err))
		assert.Len(t, logs.FilterMessage("gRPC request failed").All(), 1)
	})
}

func TestRecoveryInterceptor(t *testing.T) {
	interceptor := RecoveryInterceptor(zaptest.NewLogger(t))
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Panics"}

	resp, err := interceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		panic("nil map write")
	})
	assert.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestServerBuilder(t *testing.T) {
	t.Run("invalid port", func(t *testing.T) {
		_, err := New(WithPort(70000))
		assert.Error(t, err)
	})

	t.Run("health check over listener", func(t *testing.T) {
		lis := bufconn.Listen(1 << 20)
		server, err := New(
			WithListener(lis),
			WithLogger(zaptest.NewLogger(t)),
			WithLogging(true),
			WithRecovery(true),
		)
		require.NoError(t, err)
		require.NotNil(t, server.grpcServer)
		require.NotNil(t, server.healthServer)

		server.RegisterServiceWithHealth(&grpc.ServiceDesc{
			ServiceName: "test.Service",
			HandlerType: (*any)(nil),
		}, struct{}{})
		server.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			assert.NoError(t, server.Shutdown(ctx))
		}()

		conn, err := grpc.NewClient("passthrough:///bufnet",
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				return lis.DialContext(ctx)
			}),
			grpc.WithTransportCredentials(insecure.NewCredentials()))
		require.NoError(t, err)
		defer conn.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		healthClient := healthpb.NewHealthClient(conn)
		resp, err := healthClient.Check(ctx, &healthpb.HealthCheckRequest{})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)

		resp, err = healthClient.Check(ctx, &healthpb.HealthCheckRequest{Service: "test.Service"})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)

		server.SetServiceHealth("test.Service", healthpb.HealthCheckResponse_NOT_SERVING)
		resp, err = healthClient.Check(ctx, &healthpb.HealthCheckRequest{Service: "test.Service"})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)
	})
}
