package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInitLevel(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	Init("debug")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.NotNil(t, Gorm())

	Init("nonsense")
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
