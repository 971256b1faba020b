package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/riskview/riskview/internal/analysis"
	"github.com/riskview/riskview/internal/diagram"
	"github.com/riskview/riskview/internal/model"
)

// ResultCatalog builds the navigation tree over the loaded model and
// the current result set. Tree entries stay cheap: actionable nodes
// hold a registry key, and the view behind it is materialized only when
// the user activates the entry.
type ResultCatalog struct {
	logger   *slog.Logger
	registry *ActionRegistry
	asserts  *InvariantPolicy
}

// NewResultCatalog creates a catalog registering into the given registry.
func NewResultCatalog(logger *slog.Logger, registry *ActionRegistry, asserts *InvariantPolicy) *ResultCatalog {
	return &ResultCatalog{
		logger:   logger,
		registry: registry,
		asserts:  asserts,
	}
}

// Rebuild replaces the navigation tree for a new model/result pair. The
// registry is invalidated first, so every materializer handed out for
// the previous tree is stale before the new entries appear. Open views
// are untouched.
func (c *ResultCatalog) Rebuild(graph *model.Graph, rs *analysis.ResultSet) *NavTree {
	c.registry.Invalidate()

	tree := &NavTree{}
	if graph != nil {
		tree.Roots = append(tree.Roots, c.buildModelBranch(graph))
	}
	if rs != nil {
		tree.Roots = append(tree.Roots, c.buildResultsBranch(graph, rs))
	}
	return tree
}

// buildModelBranch builds the model side of the tree: one diagram entry
// per fault tree and the model data tables.
func (c *ResultCatalog) buildModelBranch(graph *model.Graph) *NavNode {
	faultTrees := &NavNode{Title: "Fault Trees"}
	for _, ft := range graph.FaultTrees {
		node := &NavNode{Title: ft.Name}
		if len(ft.TopGates) > 0 {
			node.ActionID = "model/fault-tree/" + ft.Name
			c.registry.Register(node.ActionID, c.diagramMaterializer(graph, ft))
		}
		faultTrees.Children = append(faultTrees.Children, node)
	}

	basicEvents := &NavNode{
		Title:    fmt.Sprintf("Basic Events: %d", len(graph.BasicEventList)),
		ActionID: "model/basic-events",
	}
	c.registry.Register(basicEvents.ActionID, c.basicEventsMaterializer(graph))

	modelData := &NavNode{
		Title: "Model Data",
		Children: []*NavNode{
			basicEvents,
			{Title: fmt.Sprintf("House Events: %d", len(graph.HouseEventList))},
			{Title: "Parameters"},
		},
	}

	return &NavNode{
		Title:    graph.Name,
		Children: []*NavNode{faultTrees, modelData},
	}
}

// buildResultsBranch builds the report side of the tree. Per result
// entry the child slots appear in fixed order: products, probability,
// importance factors.
func (c *ResultCatalog) buildResultsBranch(graph *model.Graph, rs *analysis.ResultSet) *NavNode {
	root := &NavNode{Title: "Analysis Results"}

	for i, entry := range rs.Results {
		name, err := entry.Target.DisplayName()
		if err != nil {
			c.asserts.Fail("%v", err)
			continue
		}

		// Every reported result carries a fault-tree analysis; its
		// absence is a programmer error, not an empty slot.
		if entry.FaultTree == nil {
			c.asserts.Fail("result %s has no fault tree analysis", name)
			continue
		}

		node := &NavNode{Title: name}

		products := &NavNode{
			Title:    fmt.Sprintf("Products: %d", len(entry.FaultTree.Products)),
			ActionID: fmt.Sprintf("result/%d/products", i),
		}
		c.registry.Register(products.ActionID, c.productsMaterializer(name, entry))
		node.Children = append(node.Children, products)

		if entry.Probability != nil {
			node.Children = append(node.Children, &NavNode{
				Title: fmt.Sprintf("Probability: %g", entry.Probability.TotalProbability),
			})
		}

		if entry.Importance != nil {
			child := &NavNode{
				Title:    fmt.Sprintf("Importance Factors: %d", len(entry.Importance.Records)),
				ActionID: fmt.Sprintf("result/%d/importance", i),
			}
			c.registry.Register(child.ActionID, c.importanceMaterializer(graph, name, entry))
			node.Children = append(node.Children, child)
		}

		root.Children = append(root.Children, node)
	}

	return root
}

func (c *ResultCatalog) diagramMaterializer(graph *model.Graph, ft *model.FaultTree) Materializer {
	return func() (*View, error) {
		root := graph.Gate(ft.TopGates[0])
		if root == nil {
			return nil, fmt.Errorf("fault tree %s: top gate %s is not defined", ft.Name, ft.TopGates[0])
		}
		scene, err := diagram.NewBuilder(c.logger, graph).Build(root)
		if err != nil {
			return nil, fmt.Errorf("fault tree %s: %w", ft.Name, err)
		}
		return NewDiagramView(ft.Name, scene), nil
	}
}

func (c *ResultCatalog) basicEventsMaterializer(graph *model.Graph) Materializer {
	return func() (*View, error) {
		table := &Table{Columns: []string{"Id", "Probability", "Label"}}
		for _, be := range graph.BasicEventList {
			prob := "NULL"
			if be.HasProbability() {
				prob = fmt.Sprintf("%g", *be.Probability)
			}
			table.Rows = append(table.Rows, []string{be.ID, prob, be.Label})
		}
		return NewTableView("Basic Events", table), nil
	}
}

// productsMaterializer builds the products table. With a probability
// analysis present the table carries four columns, the last one being
// each product's contribution to the sum of product probabilities;
// without it only the product and its order are shown.
func (c *ResultCatalog) productsMaterializer(name string, entry analysis.ResultEntry) Materializer {
	return func() (*View, error) {
		withProbability := entry.Probability != nil
		table := &Table{Columns: []string{"Product", "Order"}}
		if withProbability {
			table.Columns = append(table.Columns, "Probability", "Contribution")
		}

		sum := entry.FaultTree.SumOfProbabilities()
		for _, product := range entry.FaultTree.Products {
			row := []string{FormatProduct(product), fmt.Sprintf("%d", product.Order())}
			if withProbability {
				contribution := 0.0
				if sum > 0 {
					contribution = product.Probability / sum
				}
				row = append(row,
					fmt.Sprintf("%g", product.Probability),
					fmt.Sprintf("%g", contribution))
			}
			table.Rows = append(table.Rows, row)
		}
		return NewTableView(name+": Products", table), nil
	}
}

func (c *ResultCatalog) importanceMaterializer(graph *model.Graph, name string, entry analysis.ResultEntry) Materializer {
	return func() (*View, error) {
		table := &Table{Columns: []string{"Id", "Occurrence", "Probability", "MIF", "CIF", "DIF", "RAW", "RRW"}}
		for _, rec := range entry.Importance.Records {
			prob := "NULL"
			if graph != nil {
				if p, ok := graph.EventProbability(rec.EventID); ok {
					prob = fmt.Sprintf("%g", p)
				}
			}
			table.Rows = append(table.Rows, []string{
				rec.EventID,
				fmt.Sprintf("%g", rec.Occurrence),
				prob,
				fmt.Sprintf("%g", rec.MIF),
				fmt.Sprintf("%g", rec.CIF),
				fmt.Sprintf("%g", rec.DIF),
				fmt.Sprintf("%g", rec.RAW),
				fmt.Sprintf("%g", rec.RRW),
			})
		}
		return NewTableView(name+": Importance Factors", table), nil
	}
}

// FormatProduct renders a product as its literals joined with the
// product operator, complemented literals prefixed with the negation
// sign.
func FormatProduct(p analysis.Product) string {
	parts := make([]string, 0, len(p.Literals))
	for _, lit := range p.Literals {
		if lit.Complement {
			parts = append(parts, "¬"+lit.EventID)
		} else {
			parts = append(parts, lit.EventID)
		}
	}
	return strings.Join(parts, " ⋅ ")
}
