package identity

import (
	"context"
	"sync"

	"github.com/Kotlang/photoFeedGo/logger"
	grpc_auth "github.com/grpc-ecosystem/go-grpc-middleware/auth"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	signUpMethod        = "/auth.Login/SignUp"
	signInMethod        = "/auth.Login/SignIn"
	signOutMethod       = "/auth.Login/SignOut"
	getProfileMethod    = "/auth.Profile/GetProfile"
	updateProfileMethod = "/auth.Profile/UpdateProfile"
)

type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"displayName"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" validate:"required,max=64"`
}

type authResponse struct {
	UserId      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Token       string `json:"token"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// Provider is the external identity service. Calls that act on an existing
// session read the caller's bearer token from incoming metadata on ctx.
type Provider interface {
	SignUp(ctx context.Context, req *SignUpRequest) (*Session, error)
	SignIn(ctx context.Context, req *SignInRequest) (*Session, error)
	SignOut(ctx context.Context) error
	GetProfile(ctx context.Context) (*Session, error)
	UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*Session, error)
}

type AuthClient struct {
	target             string
	cached_conn        *grpc.ClientConn
	conn_creation_lock sync.Mutex
}

func NewAuthClient(target string) *AuthClient {
	return &AuthClient{target: target}
}

func (c *AuthClient) getConnection(ctx context.Context) (*grpc.ClientConn, error) {
	c.conn_creation_lock.Lock()
	defer c.conn_creation_lock.Unlock()

	if c.cached_conn != nil && c.cached_conn.GetState() != connectivity.Shutdown {
		return c.cached_conn, nil
	}

	conn, err := grpc.DialContext(ctx, c.target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(jsonCodec{})))
	if err != nil {
		logger.Error("Failed getting connection with auth service", zap.String("target", c.target), zap.Error(err))
		return nil, status.Error(codes.Unavailable, "auth service unreachable")
	}

	c.cached_conn = conn
	return conn, nil
}

func (c *AuthClient) Close() error {
	c.conn_creation_lock.Lock()
	defer c.conn_creation_lock.Unlock()

	if c.cached_conn == nil {
		return nil
	}
	err := c.cached_conn.Close()
	c.cached_conn = nil
	return err
}

func (c *AuthClient) SignUp(ctx context.Context, req *SignUpRequest) (*Session, error) {
	resp := &authResponse{}
	if err := c.invoke(ctx, signUpMethod, req, resp); err != nil {
		return nil, err
	}
	return resp.session(), nil
}

func (c *AuthClient) SignIn(ctx context.Context, req *SignInRequest) (*Session, error) {
	resp := &authResponse{}
	if err := c.invoke(ctx, signInMethod, req, resp); err != nil {
		return nil, err
	}
	return resp.session(), nil
}

func (c *AuthClient) SignOut(ctx context.Context) error {
	callCtx, err := prepareCallContext(ctx)
	if err != nil {
		return err
	}
	return c.invoke(callCtx, signOutMethod, struct{}{}, &statusResponse{})
}

func (c *AuthClient) GetProfile(ctx context.Context) (*Session, error) {
	callCtx, err := prepareCallContext(ctx)
	if err != nil {
		return nil, err
	}

	resp := &authResponse{}
	if err := c.invoke(callCtx, getProfileMethod, struct{}{}, resp); err != nil {
		return nil, err
	}

	session := resp.session()
	if len(session.Token) == 0 {
		session.Token, _ = grpc_auth.AuthFromMD(ctx, "bearer")
	}
	return session, nil
}

func (c *AuthClient) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*Session, error) {
	callCtx, err := prepareCallContext(ctx)
	if err != nil {
		return nil, err
	}

	resp := &authResponse{}
	if err := c.invoke(callCtx, updateProfileMethod, req, resp); err != nil {
		return nil, err
	}

	session := resp.session()
	if len(session.Token) == 0 {
		session.Token, _ = grpc_auth.AuthFromMD(ctx, "bearer")
	}
	return session, nil
}

func (c *AuthClient) invoke(ctx context.Context, method string, req, resp interface{}) error {
	conn, err := c.getConnection(ctx)
	if err != nil {
		return err
	}

	if err := conn.Invoke(ctx, method, req, resp); err != nil {
		logger.Error("Auth service call failed", zap.String("method", method), zap.Error(err))
		return remoteError(err)
	}
	return nil
}

func (r *authResponse) session() *Session {
	return &Session{
		UserId:      r.UserId,
		DisplayName: r.DisplayName,
		Email:       r.Email,
		Token:       r.Token,
	}
}

// WithIncomingBearer exposes an Authorization header value to the auth client
// the way a grpc server would see it.
func WithIncomingBearer(ctx context.Context, authorization string) context.Context {
	if len(authorization) == 0 {
		return ctx
	}
	return metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", authorization))
}

func prepareCallContext(ctx context.Context) (context.Context, error) {
	jwtToken, err := grpc_auth.AuthFromMD(ctx, "bearer")
	if err != nil {
		logger.Debug("Failed getting jwt token", zap.Error(err))
		return nil, status.Error(codes.Unauthenticated, "missing bearer token")
	}

	return metadata.AppendToOutgoingContext(ctx, "authorization", "bearer "+jwtToken), nil
}

// remoteError keeps auth decisions as they are and folds everything else
// into Unavailable.
func remoteError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return status.Error(codes.Unavailable, err.Error())
	}

	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied, codes.InvalidArgument,
		codes.AlreadyExists, codes.NotFound, codes.DeadlineExceeded:
		return err
	default:
		return status.Error(codes.Unavailable, st.Message())
	}
}
