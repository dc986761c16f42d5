// Package formutil decodes request bodies into payload structs. Portal
// forms post either application/x-www-form-urlencoded or JSON; both land in
// the same struct, keyed by its json tags.
//
// Example usage:
//
//	var in struct {
//		Email    string `json:"email" validate:"required"`
//		Remember bool   `json:"remember"`
//	}
//	if err := formutil.Decode(r, &in); err != nil {
//		respond.Error(w, http.StatusBadRequest, "invalid request body")
//		return
//	}
package formutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxBodyBytes caps a decoded body.
const MaxBodyBytes = 1 << 20

var ErrNotStruct = errors.New("formutil: destination must be a pointer to a struct")

// IsJSON reports whether the request body is JSON.
func IsJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && (mt == "application/json" || strings.HasSuffix(mt, "+json"))
}

// Decode fills dst from a JSON or form body. An empty body leaves dst
// untouched.
func Decode(r *http.Request, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStruct
	}
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)

	if IsJSON(r) {
		err := json.NewDecoder(body).Decode(dst)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	r.Body = body
	if err := r.ParseForm(); err != nil {
		return err
	}
	return fill(rv.Elem(), r.PostForm)
}

func fill(v reflect.Value, form url.Values) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		vals, ok := form[name]
		if !ok {
			continue
		}
		if err := set(v.Field(i), vals); err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
	}
	return nil
}

var timeType = reflect.TypeOf(time.Time{})

func set(fv reflect.Value, vals []string) error {
	if fv.Kind() == reflect.Pointer {
		if len(vals) == 0 || strings.TrimSpace(vals[0]) == "" {
			return nil
		}
		p := reflect.New(fv.Type().Elem())
		if err := set(p.Elem(), vals); err != nil {
			return err
		}
		fv.Set(p)
		return nil
	}

	if fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.String {
		fv.Set(reflect.ValueOf(append([]string(nil), vals...)).Convert(fv.Type()))
		return nil
	}

	s := ""
	if len(vals) > 0 {
		s = vals[0]
	}
	if fv.Type() == timeType {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(t))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(s)
	case reflect.Bool:
		fv.SetBool(truthy(s))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if strings.TrimSpace(s) == "" {
			return nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return err
		}
		fv.SetInt(n)
	default:
		return fmt.Errorf("unsupported kind %s", fv.Kind())
	}
	return nil
}

// truthy accepts the values a checkbox or toggle may post.
func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// ObjectID parses the chi URL parameter name as a hex ObjectID.
func ObjectID(r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	return id, err == nil
}

// Redirect sends a 303 to target, or to the request's return parameter
// when it names a local path.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, httpnav.ResolveBackURL(r, target), http.StatusSeeOther)
}
