package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/maxviazov/prosante-admin/internal/service"
	"github.com/maxviazov/prosante-admin/internal/shopify"
)

var opNameRe = regexp.MustCompile(`(?m)^\s*(?:query|mutation)\s+(\w+)`)

// fakeShop is an in-memory Admin API answering the documents the shopify package sends.
type fakeShop struct {
	mu sync.Mutex

	definition  map[string]any
	metaobjects []map[string]any
	customers   []map[string]any
	discounts   []map[string]any

	nextID    int
	calls     []string
	failOn    map[string]error
	userErrOn map[string]string
}

func newFakeShop() *fakeShop {
	return &fakeShop{failOn: map[string]error{}, userErrOn: map[string]string{}}
}

func (f *fakeShop) resolver() service.AdminResolver {
	return service.AdminResolverFunc(func(context.Context, string) (shopify.Executor, error) { return f, nil })
}

func (f *fakeShop) called(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeShop) id(kind string) string {
	f.nextID++
	return fmt.Sprintf("gid://shopify/%s/%d", kind, f.nextID)
}

func (f *fakeShop) withDefinition() *fakeShop {
	f.definition = map[string]any{"id": "gid://shopify/MetaobjectDefinition/1", "name": service.ProDefinitionName, "type": service.ProMetaobjectType}
	return f
}

func (f *fakeShop) addPro(fields map[string]string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id("Metaobject")
	var list []any
	for _, k := range []string{"identification", "name", "email", "code", "montant", "type"} {
		if v, ok := fields[k]; ok {
			list = append(list, map[string]any{"key": k, "value": v})
		}
	}
	f.metaobjects = append(f.metaobjects, map[string]any{"id": id, "displayName": fields["name"], "fields": list})
	return id
}

func (f *fakeShop) addCustomer(email string, tags ...string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id("Customer")
	if tags == nil {
		tags = []string{}
	}
	f.customers = append(f.customers, map[string]any{"id": id, "email": email, "tags": toAny(tags), "numberOfOrders": "0"})
	return id
}

func (f *fakeShop) addDiscount(code, title string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id("DiscountCodeNode")
	f.discounts = append(f.discounts, discountNode(id, code, title))
	return id
}

func discountNode(id, code, title string) map[string]any {
	return map[string]any{
		"id": id,
		"codeDiscount": map[string]any{
			"title":  title,
			"status": "ACTIVE",
			"codes":  map[string]any{"nodes": []any{map[string]any{"code": code}}},
		},
		"_value": nil,
	}
}

func (f *fakeShop) discountByCode(code string) map[string]any {
	for _, d := range f.discounts {
		if strings.EqualFold(discountCode(d), code) {
			return d
		}
	}
	return nil
}

func discountCode(d map[string]any) string {
	return d["codeDiscount"].(map[string]any)["codes"].(map[string]any)["nodes"].([]any)[0].(map[string]any)["code"].(string)
}

func (f *fakeShop) customerTags(email string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.customers {
		if c["email"] == email {
			var out []string
			for _, t := range c["tags"].([]any) {
				out = append(out, t.(string))
			}
			return out
		}
	}
	return nil
}

func toAny(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}

func userErrors(msg string) []any {
	if msg == "" {
		return []any{}
	}
	return []any{map[string]any{"field": []any{"input"}, "message": msg}}
}

func (f *fakeShop) Do(_ context.Context, query string, vars map[string]any, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	m := opNameRe.FindStringSubmatch(query)
	if m == nil {
		return fmt.Errorf("fake: no operation name in %q", query)
	}
	op := m[1]
	f.calls = append(f.calls, op)
	if err := f.failOn[op]; err != nil {
		return err
	}
	ue := userErrors(f.userErrOn[op])
	failed := len(ue) > 0

	// Normalise vars the way they would arrive over the wire.
	raw, _ := json.Marshal(vars)
	var v map[string]any
	_ = json.Unmarshal(raw, &v)

	var data map[string]any
	switch op {
	case "DefinitionByType":
		data = map[string]any{"metaobjectDefinitionByType": f.definition}
	case "metaobjectDefinitionCreate":
		if !failed {
			f.definition = map[string]any{"id": f.id("MetaobjectDefinition"), "name": service.ProDefinitionName, "type": service.ProMetaobjectType}
		}
		data = map[string]any{op: map[string]any{"metaobjectDefinition": nilIf(failed, f.definition), "userErrors": ue}}
	case "Metaobject":
		var found any
		for _, mo := range f.metaobjects {
			if mo["id"] == v["id"] {
				found = mo
			}
		}
		data = map[string]any{"metaobject": found}
	case "Metaobjects":
		nodes := []any{}
		first := int(v["first"].(float64))
		for _, mo := range f.metaobjects {
			if len(nodes) < first {
				nodes = append(nodes, mo)
			}
		}
		data = map[string]any{"metaobjects": map[string]any{"nodes": nodes}}
	case "metaobjectCreate":
		var mo map[string]any
		if !failed {
			in := v["metaobject"].(map[string]any)
			mo = map[string]any{"id": f.id("Metaobject"), "fields": in["fields"]}
			f.metaobjects = append(f.metaobjects, mo)
		}
		data = map[string]any{op: map[string]any{"metaobject": nilIf(failed, mo), "userErrors": ue}}
	case "metaobjectUpdate":
		var found map[string]any
		for _, mo := range f.metaobjects {
			if mo["id"] == v["id"] {
				found = mo
			}
		}
		if found != nil && !failed {
			for _, upd := range v["metaobject"].(map[string]any)["fields"].([]any) {
				u := upd.(map[string]any)
				replaced := false
				for _, fld := range found["fields"].([]any) {
					if fm := fld.(map[string]any); fm["key"] == u["key"] {
						fm["value"] = u["value"]
						replaced = true
					}
				}
				if !replaced {
					found["fields"] = append(found["fields"].([]any), u)
				}
			}
		}
		data = map[string]any{op: map[string]any{"metaobject": nilIf(failed || found == nil, found), "userErrors": ue}}
	case "metaobjectDelete":
		var deleted any
		for i, mo := range f.metaobjects {
			if mo["id"] == v["id"] && !failed {
				deleted = mo["id"]
				f.metaobjects = append(f.metaobjects[:i], f.metaobjects[i+1:]...)
				break
			}
		}
		data = map[string]any{op: map[string]any{"deletedId": deleted, "userErrors": ue}}
	case "Customers":
		q, _ := v["query"].(string)
		nodes := []any{}
		for _, c := range f.customers {
			if matchCustomer(c, q) && len(nodes) < int(v["first"].(float64)) {
				nodes = append(nodes, c)
			}
		}
		data = map[string]any{"customers": map[string]any{"nodes": nodes}}
	case "customerCreate":
		var c map[string]any
		if !failed {
			in := v["input"].(map[string]any)
			c = map[string]any{"id": f.id("Customer"), "email": in["email"], "firstName": in["firstName"], "lastName": in["lastName"], "tags": in["tags"], "numberOfOrders": "0"}
			f.customers = append(f.customers, c)
		}
		data = map[string]any{op: map[string]any{"customer": nilIf(failed, c), "userErrors": ue}}
	case "tagsAdd", "tagsRemove":
		if !failed {
			for _, c := range f.customers {
				if c["id"] != v["id"] {
					continue
				}
				tags := c["tags"].([]any)
				for _, t := range v["tags"].([]any) {
					tags = removeTag(tags, t)
					if op == "tagsAdd" {
						tags = append(tags, t)
					}
				}
				c["tags"] = tags
			}
		}
		data = map[string]any{op: map[string]any{"node": nil, "userErrors": ue}}
	case "CodeDiscounts":
		nodes := []any{}
		for _, d := range f.discounts {
			if len(nodes) < int(v["first"].(float64)) {
				nodes = append(nodes, d)
			}
		}
		data = map[string]any{"codeDiscountNodes": map[string]any{"nodes": nodes}}
	case "CodeDiscountByCode":
		var found any
		if d := f.discountByCode(v["code"].(string)); d != nil {
			found = d
		}
		data = map[string]any{"codeDiscountNodeByCode": found}
	case "discountCodeBasicCreate", "discountCodeBasicUpdate":
		in := v["basicCodeDiscount"].(map[string]any)
		var node map[string]any
		if !failed {
			id, _ := v["id"].(string)
			if id == "" {
				id = f.id("DiscountCodeNode")
			}
			d := discountNode(id, in["code"].(string), in["title"].(string))
			d["_value"] = in["customerGets"].(map[string]any)["value"]
			replaced := false
			for i := range f.discounts {
				if f.discounts[i]["id"] == id {
					f.discounts[i] = d
					replaced = true
				}
			}
			if !replaced {
				f.discounts = append(f.discounts, d)
			}
			node = map[string]any{"id": id}
		}
		data = map[string]any{op: map[string]any{"codeDiscountNode": nilIf(failed, node), "userErrors": ue}}
	case "discountCodeDelete":
		if !failed {
			for i, d := range f.discounts {
				if d["id"] == v["id"] {
					f.discounts = append(f.discounts[:i], f.discounts[i+1:]...)
					break
				}
			}
		}
		data = map[string]any{op: map[string]any{"deletedCodeDiscountId": v["id"], "userErrors": ue}}
	default:
		return fmt.Errorf("fake: unhandled operation %s", op)
	}

	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func nilIf(cond bool, v map[string]any) any {
	if cond || v == nil {
		return nil
	}
	return v
}

func removeTag(tags []any, t any) []any {
	out := tags[:0:0]
	for _, x := range tags {
		if x != t {
			out = append(out, x)
		}
	}
	return out
}

// matchCustomer understands the two search forms the client sends: email:"x" and tag:"x".
func matchCustomer(c map[string]any, q string) bool {
	key, val, ok := strings.Cut(q, ":")
	if !ok {
		return true
	}
	val = strings.Trim(val, `"`)
	switch key {
	case "email":
		return c["email"] == val
	case "tag":
		for _, t := range c["tags"].([]any) {
			if t == val {
				return true
			}
		}
	}
	return false
}

var _ shopify.Executor = (*fakeShop)(nil)

// discountFor returns the title and customerGets.value sent for code.
func (f *fakeShop) discountFor(code string) (string, map[string]any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.discountByCode(code)
	if d == nil {
		return "", nil, false
	}
	value, _ := d["_value"].(map[string]any)
	return d["codeDiscount"].(map[string]any)["title"].(string), value, true
}
