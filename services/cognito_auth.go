package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"

	"cineforo/utils"
)

// CognitoVerifier is the hosted identity provider: accounts live in an
// AWS Cognito user pool and access tokens are resolved through GetUser.
type CognitoVerifier struct {
	client          *cognitoidentityprovider.Client
	appClientID     string
	appClientSecret string
}

// NewCognitoVerifier loads the AWS config for the given region and
// builds a Cognito client.
func NewCognitoVerifier(ctx context.Context, region, appClientID, appClientSecret string) (*CognitoVerifier, error) {
	cfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &CognitoVerifier{
		client:          cognitoidentityprovider.NewFromConfig(cfg),
		appClientID:     appClientID,
		appClientSecret: appClientSecret,
	}, nil
}

// SignUp registers a new account in the user pool.
func (c *CognitoVerifier) SignUp(ctx context.Context, email, password, name string) error {
	if name == "" {
		name = utils.ExtractNameFromEmail(email)
	}
	secretHash := utils.GenerateSecretHash(email, c.appClientID, c.appClientSecret)

	input := cognitoidentityprovider.SignUpInput{
		ClientId:   aws.String(c.appClientID),
		Password:   aws.String(password),
		SecretHash: aws.String(secretHash),
		Username:   aws.String(email),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("nickname"), Value: aws.String(name)},
		},
	}

	if _, err := c.client.SignUp(ctx, &input); err != nil {
		return fmt.Errorf("sign-up failed: %w", err)
	}
	return nil
}

// Login runs the USER_PASSWORD_AUTH flow and returns the access token.
func (c *CognitoVerifier) Login(ctx context.Context, email, password string) (string, error) {
	secretHash := utils.GenerateSecretHash(email, c.appClientID, c.appClientSecret)

	input := cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(c.appClientID),
		AuthParameters: map[string]string{
			"USERNAME":    email,
			"PASSWORD":    password,
			"SECRET_HASH": secretHash,
		},
	}

	out, err := c.client.InitiateAuth(ctx, &input)
	if err != nil || out.AuthenticationResult == nil || out.AuthenticationResult.AccessToken == nil {
		return "", fmt.Errorf("%w: authentication failed", ErrUnauthorized)
	}
	return *out.AuthenticationResult.AccessToken, nil
}

// Verify implements TokenVerifier by asking Cognito who owns the token.
func (c *CognitoVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	out, err := c.client.GetUser(ctx, &cognitoidentityprovider.GetUserInput{
		AccessToken: aws.String(token),
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	}

	identity := Identity{}
	if out.Username != nil {
		identity.ID = *out.Username
	}

	var email string
	for _, attr := range out.UserAttributes {
		if attr.Name == nil || attr.Value == nil {
			continue
		}
		switch *attr.Name {
		case "sub":
			identity.ID = *attr.Value
		case "nickname":
			identity.DisplayName = *attr.Value
		case "email":
			email = *attr.Value
		}
	}
	if identity.DisplayName == "" && email != "" {
		identity.DisplayName = utils.ExtractNameFromEmail(email)
	}
	if identity.ID == "" {
		return Identity{}, fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}
	return identity, nil
}
