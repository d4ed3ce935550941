package engine

import (
	"fmt"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/ThandieOps/migration-analysis/internal/scanner"
	"github.com/ThandieOps/migration-analysis/internal/taxonomy"
)

// Fact is a single recorded use of an API inside an archive
type Fact struct {
	Type     taxonomy.UsageType `json:"type" yaml:"type"`
	Subject  string             `json:"subject" yaml:"subject"`
	Location string             `json:"location" yaml:"location"`
}

// Inventory is what Inspect learns about one archive
type Inventory struct {
	Entries        int      `json:"entries" yaml:"entries"`
	Classes        int      `json:"classes" yaml:"classes"`
	NestedArchives []string `json:"nested_archives" yaml:"nested_archives"`
	Facts          []Fact   `json:"facts" yaml:"facts"`
}

// deploymentDescriptors maps well-known descriptor entries to what they configure
var deploymentDescriptors = map[string]string{
	"WEB-INF/web.xml":                    "Java EE web module",
	"META-INF/application.xml":           "Java EE enterprise application",
	"META-INF/ejb-jar.xml":               "EJB module",
	"META-INF/ra.xml":                    "Java EE resource adapter",
	"META-INF/application-client.xml":    "Java EE application client",
	"META-INF/webservices.xml":           "JAX-WS web services",
	"WEB-INF/webservices.xml":            "JAX-WS web services",
	"WEB-INF/weblogic.xml":               "WebLogic web module",
	"META-INF/weblogic-application.xml":  "WebLogic enterprise application",
	"META-INF/weblogic-ejb-jar.xml":      "WebLogic EJB module",
	"WEB-INF/jboss-web.xml":              "JBoss web module",
	"META-INF/jboss.xml":                 "JBoss EJB module",
	"META-INF/jboss-app.xml":             "JBoss enterprise application",
	"WEB-INF/ibm-web-bnd.xmi":            "WebSphere web bindings",
	"META-INF/ibm-application-bnd.xmi":   "WebSphere application bindings",
	"META-INF/ibm-ejb-jar-bnd.xmi":       "WebSphere EJB bindings",
	"META-INF/glassfish-application.xml": "GlassFish enterprise application",
	"WEB-INF/glassfish-web.xml":          "GlassFish web module",
	"META-INF/geronimo-application.xml":  "Geronimo enterprise application",
	"WEB-INF/geronimo-web.xml":           "Geronimo web module",
	"META-INF/orion-application.xml":     "OC4J enterprise application",
	"WEB-INF/orion-web.xml":              "OC4J web module",
	"META-INF/sun-application.xml":       "Sun enterprise application",
	"WEB-INF/sun-web.xml":                "Sun web module",
	"META-INF/persistence.xml":           "JPA persistence unit",
}

// Inspect opens the archive at archivePath and classifies its entries.
// Class files are counted, not decoded.
func Inspect(archivePath string, archiveExtensions []string) (*Inventory, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer r.Close()

	inv := &Inventory{
		NestedArchives: []string{},
		Facts:          []Fact{},
	}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		inv.Entries++

		name := strings.TrimPrefix(f.Name, "/")
		switch {
		case strings.HasSuffix(name, ".class"):
			inv.Classes++
		case scanner.IsArchive(name, archiveExtensions):
			inv.NestedArchives = append(inv.NestedArchives, name)
		}

		if fact, ok := classify(name); ok {
			inv.Facts = append(inv.Facts, fact)
		}
	}
	return inv, nil
}

// classify labels entries that are themselves API usage: deployment
// descriptors and Spring configuration files
func classify(name string) (Fact, bool) {
	if subject, found := deploymentDescriptors[name]; found {
		return Fact{Type: taxonomy.DeploymentDescriptor, Subject: subject, Location: name}, true
	}

	if !strings.EqualFold(path.Ext(name), ".xml") {
		return Fact{}, false
	}
	base := path.Base(name)
	dir := path.Dir(name)
	switch {
	case dir == "META-INF/spring" || strings.HasPrefix(dir, "META-INF/spring/"):
		return Fact{Type: taxonomy.SpringConfiguration, Subject: "Spring XML configuration", Location: name}, true
	case strings.Contains(strings.ToLower(base), "applicationcontext"):
		return Fact{Type: taxonomy.SpringConfiguration, Subject: "Spring application context", Location: name}, true
	case dir == "WEB-INF" && strings.HasSuffix(base, "-servlet.xml"):
		return Fact{Type: taxonomy.SpringConfiguration, Subject: "Spring DispatcherServlet context", Location: name}, true
	}
	return Fact{}, false
}
