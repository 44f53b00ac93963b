package aws_handler

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
)

// SecretManager reads string secrets. It satisfies config.SecretSource.
type SecretManager struct {
	svc secretsmanageriface.SecretsManagerAPI
}

func NewSecretManager(svc secretsmanageriface.SecretsManagerAPI) *SecretManager {
	return &SecretManager{svc: svc}
}

func (s *SecretManager) GetSecretValue(secretId string) (string, error) {
	result, err := s.svc.GetSecretValue(&secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretId),
	})
	if err != nil {
		return "", err
	}
	if result.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", secretId)
	}
	return *result.SecretString, nil
}
