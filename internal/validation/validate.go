// Package validation checks user input against JSON schemas before it is
// handed to the record store. The store and the totals calculator accept any
// value; range checks live only here.
package validation

import (
	"bytes"
	"embed"
	"errors"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/samber/lo"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schema names.
const (
	SchemaClient       = "client.json"
	SchemaProduct      = "product.json"
	SchemaInvoice      = "invoice.json"
	SchemaPayment      = "payment.json"
	SchemaTemplate     = "template.json"
	SchemaRegistration = "registration.json"
)

type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// New compiles every embedded schema.
func New() (*Validator, error) {
	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	for _, e := range entries {
		data, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		if err := compiler.AddResource(e.Name(), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", e.Name(), err)
		}
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(entries))}
	for _, e := range entries {
		s, err := compiler.Compile(e.Name())
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		v.schemas[e.Name()] = s
	}
	return v, nil
}

// Validate checks the JSON form of value against the named schema. A
// mismatch is reported as common.ErrInvalidInput.
func (v *Validator) Validate(schema string, value any) error {
	s, ok := v.schemas[schema]
	if !ok {
		return fmt.Errorf("unknown schema %q", schema)
	}

	b, err := json.Marshal(value)
	if err != nil {
		var uv *json.UnsupportedValueError
		if errors.As(err, &uv) {
			return fmt.Errorf("%w: %s", common.ErrInvalidInput, uv.Str)
		}
		return fmt.Errorf("marshal %s input: %w", schema, err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("unmarshal %s input: %w", schema, err)
	}

	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s", common.ErrInvalidInput, describe(err))
	}
	return nil
}

func (v *Validator) Client(c models.Client) error {
	return v.Validate(SchemaClient, c)
}

func (v *Validator) Product(p models.Product) error {
	return v.Validate(SchemaProduct, p)
}

func (v *Validator) Invoice(i models.Invoice) error {
	return v.Validate(SchemaInvoice, i)
}

func (v *Validator) Payment(p models.Payment) error {
	return v.Validate(SchemaPayment, p)
}

func (v *Validator) Template(t models.Template) error {
	return v.Validate(SchemaTemplate, t)
}

// Registration checks the sign-up form. The password is only measured, it is
// not kept anywhere.
func (v *Validator) Registration(name, email, company string, password []byte) error {
	return v.Validate(SchemaRegistration, map[string]string{
		"name":     name,
		"email":    email,
		"company":  company,
		"password": string(password),
	})
}

// describe flattens a validation error tree into its leaf messages.
func describe(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}

	var leaves []*jsonschema.ValidationError
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			leaves = append(leaves, e)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)

	msgs := lo.Map(leaves, func(e *jsonschema.ValidationError, _ int) string {
		loc := e.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return loc + ": " + e.Message
	})
	return strings.Join(lo.Uniq(msgs), "; ")
}
