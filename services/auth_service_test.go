package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allai/models"
)

func TestAuthService_SignUpThenSignIn(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(NewMemoryUserStore(), "secret")

	resp, err := svc.SignUp(ctx, "Ada", " Ada@Example.com ", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, "Ada", resp.User.Name)
	assert.Equal(t, models.PlanBasic, resp.User.UserClass)
	assert.NotEmpty(t, resp.User.ID)

	signedIn, err := svc.SignIn(ctx, "ada@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, resp.User, signedIn.User)

	subject, err := svc.Verify(signedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", subject)
}

func TestAuthService_SignUpValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(NewMemoryUserStore(), "secret")

	_, err := svc.SignUp(ctx, "x", "", "pw")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = svc.SignUp(ctx, "x", "a@b.c", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestAuthService_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(NewMemoryUserStore(), "secret")

	_, err := svc.SignUp(ctx, "a", "a@b.c", "pw")
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "b", "A@B.C", "other")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_SignInFailures(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(NewMemoryUserStore(), "secret")
	_, err := svc.SignUp(ctx, "a", "a@b.c", "pw")
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, "a@b.c", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignIn(ctx, "nobody@b.c", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignIn(ctx, "a@b.c", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestAuthService_VerifyRejects(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(NewMemoryUserStore(), "secret")
	resp, err := svc.SignUp(ctx, "a", "a@b.c", "pw")
	require.NoError(t, err)

	other := NewAuthService(NewMemoryUserStore(), "different")
	_, err = other.Verify(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	svc.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	_, err = svc.Verify(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_VerifyRejectsOtherAlgorithms(t *testing.T) {
	svc := NewAuthService(NewMemoryUserStore(), "secret")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "a@b.c"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

type fakeCompleter struct {
	reply string
	err   error
	last  openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.last = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.reply}}},
	}, nil
}

func TestEnhancer(t *testing.T) {
	ctx := context.Background()

	passthrough := NewEnhancer("", "gpt-4o-mini")
	got, err := passthrough.Enhance(ctx, "write a poem")
	require.NoError(t, err)
	assert.Equal(t, "write a poem", got)

	fake := &fakeCompleter{reply: "  Write a four-line poem about rain.  "}
	got, err = NewEnhancerWithClient(fake, "gpt-4o-mini").Enhance(ctx, "write a poem")
	require.NoError(t, err)
	assert.Equal(t, "Write a four-line poem about rain.", got)
	require.Len(t, fake.last.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, fake.last.Messages[0].Role)
	assert.Equal(t, "write a poem", fake.last.Messages[1].Content)

	empty := &fakeCompleter{reply: ""}
	got, err = NewEnhancerWithClient(empty, "m").Enhance(ctx, "keep me")
	require.NoError(t, err)
	assert.Equal(t, "keep me", got)

	failing := &fakeCompleter{err: errors.New("boom")}
	_, err = NewEnhancerWithClient(failing, "m").Enhance(ctx, "x")
	assert.ErrorIs(t, err, ErrLLMUnavailable)
}
