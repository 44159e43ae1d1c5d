package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/studiowebux/restdesk/internal/config"
	"github.com/studiowebux/restdesk/internal/converter"
	"github.com/studiowebux/restdesk/internal/importer"
	"github.com/studiowebux/restdesk/internal/search"
	"github.com/studiowebux/restdesk/internal/storage"
	"github.com/studiowebux/restdesk/internal/store"
	"github.com/studiowebux/restdesk/internal/types"
)

var (
	version = "0.1.0"

	backendFlag     string
	nameFlag        string
	outputFlag      string
	formatFlag      string
	fromFlag        string
	keepSecretsFlag bool
	urlFilterFlag   string
	organizeByFlag  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "restdesk",
	Short: "restdesk - collection store for HTTP and WebSocket requests",
	Long: `restdesk manages collections of HTTP and WebSocket request definitions:
folders, requests, environments and unsaved drafts, stored locally.

Collections are kept under ~/.restdesk as JSON files, or in a SQLite
database with --backend sqlite.

Examples:
  restdesk import api.json --name "My API"   # Import an export document
  restdesk merge 01hq3... api.json           # Merge a document into a collection
  restdesk export 01hq3... -o api.yaml       # Export a collection as YAML
  restdesk tree 01hq3...                     # Print the folder tree
  restdesk search 01hq3... login             # Fuzzy-find requests
  restdesk query api.json "collection.name"  # JMESPath over a document
  restdesk lint api.json                     # Normalize a document`,
	Version: version,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored collections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, provider, closeFn, err := openStore()
		if err != nil {
			return err
		}
		defer closeFn()

		ids, err := provider.List()
		if err != nil {
			return err
		}
		for _, id := range ids {
			c, err := st.Open(id)
			if err != nil {
				return err
			}
			fmt.Printf("%s  %s  (%d requests, %d folders)\n", c.ID, c.Name, len(c.Requests), len(c.Folders))
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import an export document as a new collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeFn, err := openStore()
		if err != nil {
			return err
		}
		defer closeFn()

		doc, err := importer.DecodeFile(args[0])
		if err != nil {
			return err
		}
		c, err := st.ImportDocument(doc, nameFlag)
		if err != nil {
			return err
		}
		if err := st.Flush(c.ID); err != nil {
			return err
		}
		fmt.Printf("Imported %q as collection %s (%d requests, %d folders)\n",
			c.Name, c.ID, len(c.Requests), len(c.Folders))
		return nil
	},
}

var mergeCmd = &cobra.Command{
	Use:   "merge <collection-id> <file>",
	Short: "Merge an export document into an existing collection",
	Long: `Merge reconciles a document into a stored collection. Requests are
matched by id first, then by method::url signature; matches are updated
in place (keeping position and unsaved drafts), everything else is
inserted, creating missing folders as needed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeFn, err := openStore()
		if err != nil {
			return err
		}
		defer closeFn()

		if _, err := st.Open(args[0]); err != nil {
			return err
		}
		doc, err := importer.DecodeFile(args[1])
		if err != nil {
			return err
		}
		result, err := st.MergeDocument(args[0], doc)
		if err != nil {
			return err
		}
		if err := st.Flush(args[0]); err != nil {
			return err
		}
		fmt.Printf("Merged: %d requests added, %d updated; %d folders created; %d environments added, %d updated\n",
			result.RequestsAdded, result.RequestsUpdated, result.FoldersCreated,
			result.EnvironmentsAdded, result.EnvironmentsUpdated)
		return nil
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a HAR capture or OpenAPI spec into a native document",
	Long: `Convert reads a third-party format and writes a native export document
that import and merge understand.

Supported formats (--from):
  har      HTTP Archive captures from browser dev tools
  openapi  OpenAPI 3.x specifications (JSON or YAML)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		var doc *types.Document
		switch fromFlag {
		case "har":
			doc, err = converter.FromHAR(data, converter.HAROptions{
				Name:        nameFlag,
				KeepSecrets: keepSecretsFlag,
				URLFilter:   urlFilterFlag,
			})
		case "openapi":
			doc, err = converter.FromOpenAPI(data, converter.OpenAPIOptions{
				Name:       nameFlag,
				OrganizeBy: organizeByFlag,
			})
		default:
			return fmt.Errorf("unknown source format %q (expected har or openapi)", fromFlag)
		}
		if err != nil {
			return err
		}
		store.Normalize(doc.Collection)

		out, err := encodeDocument(doc, outputFlag, formatFlag)
		if err != nil {
			return err
		}
		return writeOutput(out, outputFlag)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <collection-id>",
	Short: "Export a collection as a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeFn, err := openStore()
		if err != nil {
			return err
		}
		defer closeFn()

		if _, err := st.Open(args[0]); err != nil {
			return err
		}
		doc := st.ExportDocument(args[0])
		data, err := encodeDocument(doc, outputFlag, formatFlag)
		if err != nil {
			return err
		}
		return writeOutput(data, outputFlag)
	},
}

var lintCmd = &cobra.Command{
	Use:   "lint <file>",
	Short: "Normalize a document and write the repaired result",
	Long: `Lint runs the collection normalizer over a document of unknown
provenance: orphaned folders are reparented to root, dangling references
dropped, and sibling ordering made dense. The repaired document is
written to stdout or -o.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := importer.DecodeFile(args[0])
		if err != nil {
			return err
		}
		store.Normalize(doc.Collection)
		data, err := encodeDocument(doc, outputFlag, formatFlag)
		if err != nil {
			return err
		}
		return writeOutput(data, outputFlag)
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree <collection-id>",
	Short: "Print a collection's folder tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeFn, err := openStore()
		if err != nil {
			return err
		}
		defer closeFn()

		c, err := st.Open(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", c.Name, c.ID)
		printFolder(c, types.RootFolderID, 0)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <collection-id> <query>",
	Short: "Fuzzy-find requests by name, method or url",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeFn, err := openStore()
		if err != nil {
			return err
		}
		defer closeFn()

		c, err := st.Open(args[0])
		if err != nil {
			return err
		}
		matches := search.Requests(c, args[1])
		if len(matches) == 0 {
			fmt.Println("No matches")
			return nil
		}
		for _, m := range matches {
			fmt.Printf("%s  %-7s %s  (%s)\n", m.RequestID, m.Method, m.Name, m.URL)
		}
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <file-or-collection-id> <expression>",
	Short: "Apply a JMESPath expression to an export document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := resolveDocument(args[0])
		if err != nil {
			return err
		}
		result, err := search.Query(doc, args[1])
		if err != nil {
			return err
		}
		fmt.Println(result)
		return nil
	},
}

// resolveDocument treats the argument as a file when one exists at that
// path, otherwise as a stored collection id.
func resolveDocument(arg string) (*types.Document, error) {
	if _, err := os.Stat(arg); err == nil {
		return importer.DecodeFile(arg)
	}
	st, _, closeFn, err := openStore()
	if err != nil {
		return nil, err
	}
	defer closeFn()
	if _, err := st.Open(arg); err != nil {
		return nil, err
	}
	return st.ExportDocument(arg), nil
}

// openStore initializes config and the selected storage backend.
func openStore() (*store.Store, storage.Provider, func(), error) {
	if err := config.Initialize(); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	switch backendFlag {
	case "sqlite":
		provider, err := storage.NewSQLiteStore(config.DatabasePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return store.New(provider), provider, func() { _ = provider.Close() }, nil
	case "", "file":
		provider, err := storage.NewFileStore(config.CollectionsDir)
		if err != nil {
			return nil, nil, nil, err
		}
		return store.New(provider), provider, func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown backend %q (expected file or sqlite)", backendFlag)
	}
}

func encodeDocument(doc *types.Document, output, format string) ([]byte, error) {
	if format == "" {
		if strings.HasSuffix(output, ".yaml") || strings.HasSuffix(output, ".yml") {
			format = "yaml"
		} else {
			format = "json"
		}
	}
	switch format {
	case "json":
		return importer.EncodeJSON(doc)
	case "yaml":
		return importer.EncodeYAML(doc)
	default:
		return nil, fmt.Errorf("unknown format %q (expected json or yaml)", format)
	}
}

func writeOutput(data []byte, output string) error {
	if output == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(output, data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Printf("Wrote %s\n", output)
	return nil
}

func printFolder(c *types.Collection, folderID string, depth int) {
	folder, ok := c.Folders[folderID]
	if !ok {
		return
	}
	indent := strings.Repeat("  ", depth)
	for _, requestID := range folder.Requests {
		if r, ok := c.Requests[requestID]; ok {
			draft := ""
			if !r.Patch.IsEmpty() {
				draft = " *"
			}
			fmt.Printf("%s%-7s %s%s\n", indent, r.Method, r.Name, draft)
		}
	}
	for _, childID := range folder.Folders {
		if child, ok := c.Folders[childID]; ok {
			fmt.Printf("%s%s/\n", indent, child.Name)
			printFolder(c, childID, depth+1)
		}
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "file", "Storage backend: file or sqlite")
	importCmd.Flags().StringVar(&nameFlag, "name", "", "Name for the imported collection (defaults to the document's)")
	exportCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file (defaults to stdout)")
	exportCmd.Flags().StringVar(&formatFlag, "format", "", "Output format: json or yaml")
	lintCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file (defaults to stdout)")
	lintCmd.Flags().StringVar(&formatFlag, "format", "", "Output format: json or yaml")
	convertCmd.Flags().StringVar(&fromFlag, "from", "har", "Source format: har or openapi")
	convertCmd.Flags().StringVar(&nameFlag, "name", "", "Name for the converted collection")
	convertCmd.Flags().BoolVar(&keepSecretsFlag, "keep-secrets", false, "Keep authorization and cookie headers from captures")
	convertCmd.Flags().StringVar(&urlFilterFlag, "url-filter", "", "Only convert capture entries whose url contains this")
	convertCmd.Flags().StringVar(&organizeByFlag, "organize-by", "tags", "Folder layout for OpenAPI: tags or flat")
	convertCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file (defaults to stdout)")
	convertCmd.Flags().StringVar(&formatFlag, "format", "", "Output format: json or yaml")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(queryCmd)
}
