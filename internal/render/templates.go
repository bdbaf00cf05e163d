package render

import (
	"bytes"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/yuin/goldmark"

	"gitlab.com/agorahq/agora/internal/models"
)

type Templates struct {
	templates *template.Template
	envConfig *models.EnvConfig
	fs        fs.FS
}

func (tmpls *Templates) RenderHTML(w http.ResponseWriter, tmplName string, data interface{}) {
	// Reload templates every time when developing locally.
	if tmpls.envConfig.Debug {
		tmpls.load()
	}
	buff := bytes.NewBuffer([]byte{})
	err := tmpls.templates.ExecuteTemplate(buff, tmplName, data)
	if err != nil && tmplName != "404" {
		tmpls.RenderHTML(w, "404", nil)
		log.Println(err)
		return
	}
	w.Header().Add("Content-Type", "text/html")
	w.Write(buff.Bytes())
}

// Markdown converts markdown source to HTML.
func Markdown(src string) template.HTML {
	var b bytes.Buffer
	goldmark.Convert([]byte(src), &b)
	return template.HTML(b.String())
}

func markdownFunc(args ...interface{}) template.HTML {
	s, _ := args[0].(string)
	return Markdown(s)
}

func (tmpls *Templates) SetFS(fsys fs.FS) {
	tmpls.fs = fsys
	tmpls.load()
}

func (tmpls *Templates) load() {
	if tmpls.fs == nil {
		return
	}
	tmpls.templates = template.Must(template.New("").Funcs(template.FuncMap{
		"markdown": markdownFunc,
	}).ParseFS(tmpls.fs, "templates/*.html"),
	)
}

func GetTemplates(envConfig *models.EnvConfig) Templates {
	return Templates{envConfig: envConfig}
}
