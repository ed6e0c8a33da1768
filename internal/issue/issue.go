// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

const (
	DescriptorNotFoundId Id = iota + 1
	UnresolvedModuleId
	BaselineConflictId
	NamingConventionId
	OrderingViolationId
	DuplicateLocalModuleId
	MissingVersionId
	ConfigLoadFailedId
	CatalogLoadFailedId
	RepositoryUnavailableId
	MissingGroupId
	ModuleCycleId
)

const docsBase = "https://github.com/jpmsdeps/jpmsdeps/blob/main/docs/"

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		slug     string      // name accepted by 'jpmsdeps explain'
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
		extLinks []HttpLink // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id { return i.id }

func (i *Issue) Slug() string { return i.slug }

func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

func (i *Issue) ExtLinks() []HttpLink { return slices.Clone(i.extLinks) }

// Render renders the issue with glamour using the given style ("dark",
// "light", "notty" or a JSON style path).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("\n- <" + string(link) + ">")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	descriptorNotFoundIssue = &Issue{
		id:   DescriptorNotFoundId,
		slug: "descriptor-not-found",
		mdMsg: `
# No module-info.java found

The build unit has no ` + "`src/<sourceSet>/java/module-info.java`" + `, so it contributes no
dependency declarations. This is not an error for units that are not modules yet.

## Things you can try
- Create a descriptor:
~~~java
module org.example.app {
    requires org.slf4j;
}
~~~
- Check the ` + "`directories`" + ` and ` + "`modules`" + ` entries of your jpmsdeps.cue.`,
		docLinks: []HttpLink{docsBase + "discovery.md"},
	}

	unresolvedModuleIssue = &Issue{
		id:   UnresolvedModuleId,
		slug: "unresolved-module",
		mdMsg: `
# No mapping registered for a module

A ` + "`requires`" + ` directive names a module that is neither a JDK module, a module of
this build, nor known to the mapping tables.

## Things you can try
- Register the coordinates explicitly in jpmsdeps.cue:
~~~cue
module_name_to_ga: {
    "org.example.lib": "org.example:lib"
}
~~~
- Map a whole namespace with a prefix rule:
~~~cue
module_name_prefix_to_group: [
    {prefix: "org.example.", group: "org.example"},
]
~~~
- Find the real module name of a jar with ` + "`jpmsdeps analyze <jar>`" + `.`,
		docLinks: []HttpLink{docsBase + "mappings.md"},
		extLinks: []HttpLink{"https://openjdk.org/projects/jigsaw/spec/sotms/"},
	}

	baselineConflictIssue = &Issue{
		id:   BaselineConflictId,
		slug: "baseline-conflict",
		mdMsg: `
# Module registered twice in the baseline tables

The same module name appears in ` + "`unique_modules.properties`" + ` and
` + "`modules.properties`" + `. Every module name may be defined by exactly one table.

## Things you can try
- Remove the entry from one of the tables.
- Use ` + "`module_name_to_ga`" + ` in your configuration to override a baseline entry instead.`,
		docLinks: []HttpLink{docsBase + "mappings.md"},
	}

	namingConventionIssue = &Issue{
		id:   NamingConventionId,
		slug: "naming-convention",
		mdMsg: `
# Module name does not follow the naming convention

Module names are expected to be ` + "`<prefix.>unit[.variant]`" + `: a shared prefix, the dotted
name of the build unit and, for secondary source sets, the dotted source-set name.

## Examples
| unit     | source set     | module name                       |
|----------|----------------|-----------------------------------|
| app      | main           | org.example.app                   |
| app      | testFixtures   | org.example.app.test.fixtures     |
| my-lib   | main           | org.example.my.lib                |`,
		docLinks: []HttpLink{docsBase + "naming.md"},
	}

	orderingViolationIssue = &Issue{
		id:   OrderingViolationId,
		slug: "ordering",
		mdMsg: `
# Directives are not in alphabetical order

Within every kind of ` + "`requires`" + ` directive, modules of this build (sharing the module
name prefix) come first, followed by all other modules, each group sorted alphabetically.

## Things you can try
- Copy the suggested order from the check output into the descriptor.
- Run ` + "`jpmsdeps watch`" + ` to re-check while editing.`,
		docLinks: []HttpLink{docsBase + "checks.md"},
	}

	duplicateLocalModuleIssue = &Issue{
		id:   DuplicateLocalModuleId,
		slug: "duplicate-local-module",
		mdMsg: `
# Two build units declare the same module

Module names must be unique within a build. The first registration wins and the second
descriptor is ignored.

## Things you can try
- Rename one of the modules.
- Exclude one unit with the ` + "`exclusions`" + ` patterns of its directory.`,
		docLinks: []HttpLink{docsBase + "discovery.md"},
	}

	missingVersionIssue = &Issue{
		id:   MissingVersionId,
		slug: "missing-version",
		mdMsg: `
# No version defined in catalog

The module resolved to coordinates, but the version catalog has no matching entry.
Catalog aliases may use ` + "`.`, `_` or `-`" + ` as separators.

## Things you can try
~~~toml
[versions]
org_slf4j = "2.0.17"
~~~
- Or set ` + "`warn_for_missing_versions: false`" + ` when versions come from a platform.`,
		docLinks: []HttpLink{docsBase + "catalogs.md"},
	}

	configLoadFailedIssue = &Issue{
		id:   ConfigLoadFailedId,
		slug: "config",
		mdMsg: `
# Failed to load configuration

jpmsdeps reads ` + "`--config`" + `, then ` + "`<root>/jpmsdeps.cue`" + `, then
` + "`$XDG_CONFIG_HOME/jpmsdeps/config.cue`" + `. The file must satisfy the embedded schema.

## Things you can try
- Print the effective configuration: ` + "`jpmsdeps config show`" + `
- Write a commented starter file: ` + "`jpmsdeps config init`",
		docLinks: []HttpLink{docsBase + "configuration.md"},
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	catalogLoadFailedIssue = &Issue{
		id:   CatalogLoadFailedId,
		slug: "catalog",
		mdMsg: `
# Failed to read the version catalog

The file configured in ` + "`version_catalog.path`" + ` is not valid TOML, or a
` + "`[versions]`" + ` entry is neither a string nor a table with ` + "`require`, `strictly` or `prefer`" + `.`,
		docLinks: []HttpLink{docsBase + "catalogs.md"},
		extLinks: []HttpLink{"https://toml.io/en/v1.0.0"},
	}

	repositoryUnavailableIssue = &Issue{
		id:   RepositoryUnavailableId,
		slug: "repository",
		mdMsg: `
# Maven repository not reachable

Version recommendations read ` + "`maven-metadata.xml`" + ` from the configured repository.

## Things you can try
- Check the ` + "`repository`" + ` setting and your network or proxy configuration.
- Pass ` + "`--offline`" + ` to only print what is known locally.`,
		docLinks: []HttpLink{docsBase + "recommendations.md"},
	}

	missingGroupIssue = &Issue{
		id:   MissingGroupId,
		slug: "missing-group",
		mdMsg: `
# No group registered for a build unit

A module of a secondary source set (for example ` + "`testFixtures`" + `) is only reachable
through a capability ` + "`group:artifact-suffix`" + `. Without a group the dependency is
declared on the unit's main variant instead.

## Things you can try
~~~cue
group: "org.example"
~~~
- Or set ` + "`group`" + ` on the entry in ` + "`directories`" + ` or ` + "`modules`" + `.`,
		docLinks: []HttpLink{docsBase + "configuration.md"},
	}

	moduleCycleIssue = &Issue{
		id:   ModuleCycleId,
		slug: "module-cycle",
		mdMsg: `
# Modules of the build require each other

The module system does not allow cycles in the module graph: ` + "`javac`" + ` rejects a
module that reads itself through its ` + "`requires`" + ` directives.

## Things you can try
- Move the shared types into a new module both sides require.
- Replace one direction with a service: ` + "`uses`" + ` on one side, ` + "`provides ... with`" + ` on the other.`,
		docLinks: []HttpLink{docsBase + "checks.md"},
		extLinks: []HttpLink{"https://docs.oracle.com/javase/specs/jls/se21/html/jls-7.html#jls-7.7.1"},
	}

	issues = map[Id]*Issue{
		descriptorNotFoundIssue.Id():    descriptorNotFoundIssue,
		unresolvedModuleIssue.Id():      unresolvedModuleIssue,
		baselineConflictIssue.Id():      baselineConflictIssue,
		namingConventionIssue.Id():      namingConventionIssue,
		orderingViolationIssue.Id():     orderingViolationIssue,
		duplicateLocalModuleIssue.Id():  duplicateLocalModuleIssue,
		missingVersionIssue.Id():        missingVersionIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		catalogLoadFailedIssue.Id():     catalogLoadFailedIssue,
		repositoryUnavailableIssue.Id(): repositoryUnavailableIssue,
		missingGroupIssue.Id():          missingGroupIssue,
		moduleCycleIssue.Id():           moduleCycleIssue,
	}
)

// Values returns all issues ordered by Id.
func Values() []*Issue {
	ids := maps.Keys(issues)
	slices.Sort(ids)
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}

// Lookup finds an issue by slug.
func Lookup(slug string) (*Issue, bool) {
	for _, i := range issues {
		if i.slug == slug {
			return i, true
		}
	}
	return nil, false
}
