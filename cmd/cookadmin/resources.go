package main

import (
	"fmt"

	"github.com/spf13/cobra"

	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
)

func newIngredientCategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ingredient-categories",
		Aliases: []string{"categories"},
		Short:   "Manage ingredient categories",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List ingredient categories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				con, err := a.openConsole()
				if err != nil {
					return err
				}
				list, err := con.IngredientCategories.List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderCategories(list))
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <type-name>",
			Short: "Add an ingredient category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				con, err := a.openConsole()
				if err != nil {
					return err
				}
				if _, err := con.IngredientCategories.Add(cmd.Context(), domain.CreateIngredientCategory{TypeName: args[0]}); err != nil {
					return err
				}
				done(cmd, "added ingredient category %q", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "update <id> <type-name>",
			Short: "Rename an ingredient category",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				con, err := a.openConsole()
				if err != nil {
					return err
				}
				if _, err := con.IngredientCategories.Update(cmd.Context(), domain.UpdateIngredientCategory{ID: id, TypeName: args[1]}); err != nil {
					return err
				}
				done(cmd, "updated ingredient category %d", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete an ingredient category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				con, err := a.openConsole()
				if err != nil {
					return err
				}
				if err := con.IngredientCategories.Delete(cmd.Context(), id); err != nil {
					return err
				}
				done(cmd, "deleted ingredient category %d", id)
				return nil
			},
		},
	)
	return cmd
}

func newIngredientsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingredients",
		Short: "Manage ingredients",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List ingredients with their category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			con, err := a.openConsole()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			ings, err := con.Ingredients.List(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderIngredients(ings, func(ing domain.Ingredient) string {
				return con.CategoryName(ctx, ing)
			}))
			return nil
		},
	}

	var addType int64
	add := &cobra.Command{
		Use:   "add <name> --type <category-id>",
		Short: "Add an ingredient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			con, err := a.openConsole()
			if err != nil {
				return err
			}
			if _, err := con.Ingredients.Add(cmd.Context(), domain.CreateIngredient{IngredientName: args[0], TypeID: addType}); err != nil {
				return err
			}
			done(cmd, "added ingredient %q", args[0])
			return nil
		},
	}
	add.Flags().Int64Var(&addType, "type", 0, "ingredient category id")
	_ = add.MarkFlagRequired("type")

	var updateType int64
	update := &cobra.Command{
		Use:   "update <id> <name> --type <category-id>",
		Short: "Update an ingredient",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			con, err := a.openConsole()
			if err != nil {
				return err
			}
			payload := domain.UpdateIngredient{ID: id, IngredientName: args[1], TypeID: updateType}
			if _, err := con.Ingredients.Update(cmd.Context(), payload); err != nil {
				return err
			}
			done(cmd, "updated ingredient %d", id)
			return nil
		},
	}
	update.Flags().Int64Var(&updateType, "type", 0, "ingredient category id")
	_ = update.MarkFlagRequired("type")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an ingredient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			con, err := a.openConsole()
			if err != nil {
				return err
			}
			if err := con.Ingredients.Delete(cmd.Context(), id); err != nil {
				return err
			}
			done(cmd, "deleted ingredient %d", id)
			return nil
		},
	}

	cmd.AddCommand(list, add, update, del)
	return cmd
}

func newDishCategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dish-categories",
		Aliases: []string{"dishes"},
		Short:   "Manage dish categories",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List dish categories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				con, err := a.openConsole()
				if err != nil {
					return err
				}
				list, err := con.DishCategories.List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderDishCategories(list))
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <name>",
			Short: "Add a dish category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				con, err := a.openConsole()
				if err != nil {
					return err
				}
				if _, err := con.DishCategories.Add(cmd.Context(), domain.CreateDishCategory{Name: args[0]}); err != nil {
					return err
				}
				done(cmd, "added dish category %q", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "update <id> <name>",
			Short: "Rename a dish category",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				con, err := a.openConsole()
				if err != nil {
					return err
				}
				if _, err := con.DishCategories.Update(cmd.Context(), domain.UpdateDishCategory{ID: id, Name: args[1]}); err != nil {
					return err
				}
				done(cmd, "updated dish category %d", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a dish category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				con, err := a.openConsole()
				if err != nil {
					return err
				}
				if err := con.DishCategories.Delete(cmd.Context(), id); err != nil {
					return err
				}
				done(cmd, "deleted dish category %d", id)
				return nil
			},
		},
	)
	return cmd
}
