package php

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfile_Identity(t *testing.T) {
	p := New()
	assert.Equal(t, "php", p.Language())
	assert.Equal(t, "::", p.ClassSeparator())
}

func TestResolveImport(t *testing.T) {
	p := New()

	fqn, ok := p.ResolveImport(`use App\Service\Mailer;`, "")
	assert.True(t, ok)
	assert.Equal(t, "Mailer", fqn)

	fqn, ok = p.ResolveImport(`use App\Service\Mailer as Mail;`, "")
	assert.True(t, ok)
	assert.Equal(t, "Mailer", fqn)
}

func TestExtractCallReceiver(t *testing.T) {
	p := New()
	assert.Equal(t, "", p.ExtractCallReceiver("$this->service->doWork"))
	assert.Equal(t, "self", p.ExtractCallReceiver("self::create"))
}
