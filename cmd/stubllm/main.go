package main

import (
	"flag"
	"strings"

	"github.com/sirupsen/logrus"

	"domain-name-generator/internal/stub"
)

func main() {
	var (
		addr      = flag.String("addr", ":11434", "Listen address")
		apiKey    = flag.String("api-key", "", "Require this key on hosted-model endpoints")
		viceTerms = flag.String("vice-terms", "", "JSON file of severity-ranked unsafe terms")
		garble    = flag.String("garble", "", "Comma-separated domains whose verdicts come back unparseable")
		fence     = flag.Bool("fence", false, "Wrap judge replies in a markdown code fence")
		origins   = flag.String("origins", "", "Comma-separated allowed CORS origins (empty allows all)")
	)
	flag.Parse()

	server, err := stub.NewServer(stub.Config{
		APIKey:         *apiKey,
		ViceTermsPath:  *viceTerms,
		Garble:         splitList(*garble),
		FenceJSON:      *fence,
		AllowedOrigins: splitList(*origins),
	})
	if err != nil {
		logrus.Fatalf("create stub server: %v", err)
	}

	logrus.Infof("starting stub LLM server on %s", *addr)
	if err := server.Router().Run(*addr); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
