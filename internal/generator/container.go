package generator

import (
	"go/types"
	"unicode"
	"unicode/utf8"

	"github.com/toyz/delegate/internal/models"
)

// analyzeContainer derives the receiver shape of the type that gets the
// forwarders. Only hand-written methods are visible here because the loader
// masks previous output.
func analyzeContainer(tn *types.TypeName, dir string, fallback models.ReceiverKind) *models.ContainerType {
	named, _ := types.Unalias(tn.Type()).(*types.Named)

	c := &models.ContainerType{
		Name:        tn.Name(),
		PackagePath: tn.Pkg().Path(),
		PackageName: tn.Pkg().Name(),
		Dir:         dir,
		Exported:    tn.Exported(),
		Kind:        fallback,
		Named:       named,
	}
	c.QualifiedName = c.PackagePath + "." + c.Name

	if named == nil {
		c.ReceiverName = defaultReceiverName(c.Name)
		return c
	}

	if tparams := named.TypeParams(); tparams != nil {
		for i := 0; i < tparams.Len(); i++ {
			c.TypeParams = append(c.TypeParams, tparams.At(i).Obj().Name())
		}
	}

	pointers, values := 0, 0
	for i := 0; i < named.NumMethods(); i++ {
		sig, ok := named.Method(i).Type().(*types.Signature)
		if !ok || sig.Recv() == nil {
			continue
		}
		recv := sig.Recv()
		if _, ok := recv.Type().(*types.Pointer); ok {
			pointers++
		} else {
			values++
		}
		if c.ReceiverName == "" && recv.Name() != "" && recv.Name() != "_" {
			c.ReceiverName = recv.Name()
		}
	}

	switch {
	case pointers > 0:
		c.Kind = models.PointerKind
	case values > 0:
		c.Kind = models.ValueKind
	}

	if c.ReceiverName == "" || isTypeParam(c, c.ReceiverName) {
		c.ReceiverName = defaultReceiverName(c.Name)
	}
	return c
}

func defaultReceiverName(typeName string) string {
	r, _ := utf8.DecodeRuneInString(typeName)
	if r == utf8.RuneError {
		return "r"
	}
	return string(unicode.ToLower(r))
}

func isTypeParam(c *models.ContainerType, name string) bool {
	for _, tp := range c.TypeParams {
		if tp == name {
			return true
		}
	}
	return false
}

// occupiedNames returns the names already used on the container: its own
// methods and the fields it declares directly
func occupiedNames(c *models.ContainerType) map[string]string {
	names := make(map[string]string)
	if c.Named == nil {
		return names
	}
	for i := 0; i < c.Named.NumMethods(); i++ {
		names[c.Named.Method(i).Name()] = "method " + c.Name + "." + c.Named.Method(i).Name()
	}
	if st, ok := c.Named.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			f := st.Field(i)
			names[f.Name()] = "field " + c.Name + "." + f.Name()
		}
	}
	return names
}

// setterParamName picks the setter argument name, avoiding the receiver
func setterParamName(receiver string) string {
	if receiver == "v" {
		return "value"
	}
	return "v"
}
