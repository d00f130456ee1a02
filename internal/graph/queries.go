package graph

// Cypher constants for the export operations.
const (
	// CreateConstraintComponentID ensures Component(id) is unique and indexed.
	CreateConstraintComponentID = `CREATE CONSTRAINT component_id IF NOT EXISTS FOR (c:Component) REQUIRE c.id IS UNIQUE`
	// CreateConstraintFileID ensures File(id) is unique and indexed.
	CreateConstraintFileID = `CREATE CONSTRAINT file_id IF NOT EXISTS FOR (f:File) REQUIRE f.id IS UNIQUE`

	// UpsertComponentNode merges a component node by id and sets its
	// properties.
	UpsertComponentNode = `
UNWIND $components AS comp
MERGE (c:Component {id: comp.id})
SET c.name = comp.name,
    c.type = comp.type,
    c.origin = comp.origin,
    c.projectId = comp.projectId,
    c.fileId = comp.fileId
`

	// UpsertRelationship merges a typed edge between two components.
	UpsertRelationship = `
UNWIND $edges AS edge
MATCH (src:Component {id: edge.sourceId})
MATCH (tgt:Component {id: edge.targetId})
MERGE (src)-[r:RELATES {relType: edge.relType}]->(tgt)
SET r.projectId = edge.projectId,
    r.confidence = edge.confidence
`

	// UpsertFileNode merges a file node by id.
	UpsertFileNode = `
UNWIND $files AS f
MERGE (file:File {id: f.id})
SET file.name = f.name,
    file.path = f.path,
    file.type = f.type,
    file.projectId = f.projectId
`

	// LinkComponentToFile creates DEFINED_IN edges from components to their
	// owning files.
	LinkComponentToFile = `
UNWIND $components AS comp
MATCH (c:Component {id: comp.id})
MATCH (f:File {id: comp.fileId})
MERGE (c)-[:DEFINED_IN]->(f)
`

	// DeleteProjectNodes removes every node and edge of one project.
	DeleteProjectNodes = `
MATCH (n {projectId: $projectId})
DETACH DELETE n
`

	// TableNeighborhood returns everything within two hops of a table
	// component, the typical starting point when tracing a legacy schema.
	TableNeighborhood = `
MATCH path = (c:Component {id: $componentId})-[:RELATES*1..2]-(other)
RETURN path
`
)
